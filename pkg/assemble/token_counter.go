package assemble

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/tingly-dev/streambox/pkg/event"
)

// StreamTokenCounter approximates output token counts for providers that
// never report usage, by tokenizing each delta as it arrives. Counts are
// estimates; provider-reported usage always wins.
type StreamTokenCounter struct {
	encoder      tokenizer.Codec
	outputTokens int
}

// NewStreamTokenCounter creates a counter using the o200k_base encoding.
func NewStreamTokenCounter() (*StreamTokenCounter, error) {
	enc, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer: %w", err)
	}
	return &StreamTokenCounter{encoder: enc}, nil
}

// Consume updates the running count from one normalized event.
func (c *StreamTokenCounter) Consume(ev event.Event) {
	switch ev.Kind {
	case event.KindText, event.KindThinking:
		c.outputTokens += c.countTokens(ev.Text)
	case event.KindToolCall:
		if ev.ToolCall == nil {
			return
		}
		c.outputTokens += c.countTokens(ev.ToolCall.Name)
		c.outputTokens += c.countTokens(ev.ToolCall.Arguments)
	}
}

// OutputTokens returns the estimated output token count.
func (c *StreamTokenCounter) OutputTokens() int {
	return c.outputTokens
}

// countTokens tokenizes one text fragment, falling back to a chars/4
// estimate if encoding fails.
func (c *StreamTokenCounter) countTokens(text string) int {
	if text == "" {
		return 0
	}
	count, err := c.encoder.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}
