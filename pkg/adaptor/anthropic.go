package adaptor

import (
	"github.com/tidwall/gjson"

	"github.com/tingly-dev/streambox/internal/protocol"
	"github.com/tingly-dev/streambox/pkg/event"
)

// anthropicExtractor understands the Anthropic messages event envelope:
// every record carries a "type" discriminator and content blocks are
// addressed by index.
type anthropicExtractor struct{}

func (e *anthropicExtractor) Style() protocol.APIStyle {
	return protocol.APIStyleAnthropic
}

func (e *anthropicExtractor) Extract(payload string) (*RawDelta, error) {
	if !gjson.Valid(payload) {
		return nil, &ParseError{Payload: payload, Reason: "invalid JSON"}
	}
	root := gjson.Parse(payload)

	raw := &RawDelta{}
	switch root.Get("type").String() {
	case "message_start":
		// Input token count is only reported here.
		if in := root.Get("message.usage.input_tokens"); in.Exists() && in.Int() > 0 {
			raw.Usage = &event.Usage{
				PromptTokens: int(in.Int()),
				TotalTokens:  int(in.Int()),
			}
		}

	case "content_block_start":
		block := root.Get("content_block")
		if block.Get("type").String() == "tool_use" {
			raw.ToolCalls = append(raw.ToolCalls, ToolCallFragment{
				Index: int(root.Get("index").Int()),
				ID:    block.Get("id").String(),
				Name:  block.Get("name").String(),
			})
		}

	case "content_block_delta":
		delta := root.Get("delta")
		switch delta.Get("type").String() {
		case "text_delta":
			raw.Content = delta.Get("text").String()
		case "thinking_delta":
			raw.Thinking = delta.Get("thinking").String()
		case "input_json_delta":
			raw.ToolCalls = append(raw.ToolCalls, ToolCallFragment{
				Index:     int(root.Get("index").Int()),
				Arguments: delta.Get("partial_json").String(),
			})
		}

	case "message_delta":
		raw.FinishReason = root.Get("delta.stop_reason").String()
		if out := root.Get("usage.output_tokens"); out.Exists() {
			raw.Usage = &event.Usage{
				PromptTokens:     int(root.Get("usage.input_tokens").Int()),
				CompletionTokens: int(out.Int()),
			}
			raw.Usage.TotalTokens = raw.Usage.PromptTokens + raw.Usage.CompletionTokens
		}

	case "error":
		raw.ErrorType = root.Get("error.type").String()
		raw.ErrorMessage = root.Get("error.message").String()

	case "ping", "message_stop", "content_block_stop":
		// Keep-alives and block/message terminators carry no content.
	}

	return raw, nil
}
