// Package assemble consumes a stream session and folds its events into a
// complete assistant message.
package assemble

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tingly-dev/streambox/pkg/event"
	"github.com/tingly-dev/streambox/pkg/stream"
)

// Message is the fully assembled result of one streamed response.
type Message struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Thinking     string       `json:"thinking,omitempty"`
	ToolCalls    []ToolCall   `json:"tool_calls,omitempty"`
	FinishReason string       `json:"finish_reason"`
	Usage        *event.Usage `json:"usage,omitempty"`
}

// Assemble drains a session into one message. Text and thinking fragments
// are concatenated in arrival order and tool-call fragments accumulated by
// index. When the provider never reported usage, completion tokens are
// estimated with tiktoken. The session's terminal error, if any, is
// returned alongside a nil message.
func Assemble(sess *stream.Session) (*Message, error) {
	var (
		content  strings.Builder
		thinking strings.Builder
		acc      = NewToolCallAccumulator()
		msg      = &Message{ID: "msg-" + uuid.NewString()}
	)

	counter, err := NewStreamTokenCounter()
	if err != nil {
		logrus.WithError(err).Warn("Token counter unavailable, usage estimation disabled")
		counter = nil
	}

	for sess.Next() {
		ev := sess.Current()
		switch ev.Kind {
		case event.KindText:
			content.WriteString(ev.Text)
		case event.KindThinking:
			thinking.WriteString(ev.Text)
		case event.KindToolCall:
			if ev.ToolCall != nil {
				acc.Add(ev.ToolCall.Index, ev.ToolCall.ID, ev.ToolCall.Name, ev.ToolCall.Arguments)
			}
		case event.KindCompletion:
			msg.FinishReason = ev.FinishReason
			if ev.Usage != nil {
				msg.Usage = ev.Usage
			}
		}
		if counter != nil {
			counter.Consume(ev)
		}
	}
	if err := sess.Err(); err != nil {
		return nil, err
	}

	msg.Content = content.String()
	msg.Thinking = thinking.String()
	msg.ToolCalls = acc.Calls()

	if msg.Usage == nil && counter != nil {
		msg.Usage = &event.Usage{
			CompletionTokens: counter.OutputTokens(),
			TotalTokens:      counter.OutputTokens(),
		}
	}

	return msg, nil
}
