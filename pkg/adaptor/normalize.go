package adaptor

import (
	"fmt"

	"github.com/tingly-dev/streambox/pkg/event"
)

// ProviderError wraps an error payload streamed by the upstream service.
type ProviderError struct {
	Type    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Type, e.Message)
}

// Normalize maps one raw delta to its ordered sequence of events. The
// mapping is pure: thinking before text, text before tool calls, completion
// always last. Tool-call fragments keep their provider index verbatim and
// are never merged across records.
func Normalize(raw *RawDelta) []event.Event {
	if raw == nil || raw.IsZero() {
		return nil
	}

	if raw.ErrorMessage != "" || raw.ErrorType != "" {
		return []event.Event{event.Error(&ProviderError{
			Type:    raw.ErrorType,
			Message: raw.ErrorMessage,
		})}
	}

	var events []event.Event
	if raw.Thinking != "" {
		events = append(events, event.ThinkingDelta(raw.Thinking))
	}
	if raw.Content != "" {
		events = append(events, event.TextDelta(raw.Content))
	}
	for _, tc := range raw.ToolCalls {
		events = append(events, event.ToolCall(event.ToolCallDelta{
			Index:     tc.Index,
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: tc.Arguments,
		}))
	}
	if raw.FinishReason != "" {
		events = append(events, event.Completion(raw.FinishReason, raw.Usage))
	} else if raw.Usage != nil {
		// Usage without a finish reason (e.g. Anthropic message_start)
		// travels on a completion-less usage event so nothing is lost.
		events = append(events, event.Event{Kind: event.KindCompletion, Usage: raw.Usage})
	}

	return events
}
