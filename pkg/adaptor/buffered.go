package adaptor

import (
	"github.com/tidwall/gjson"

	"github.com/tingly-dev/streambox/internal/protocol"
	"github.com/tingly-dev/streambox/pkg/event"
)

// bufferedExtractor handles providers that answer with one fully-buffered
// OpenAI-format JSON body instead of an SSE stream. The whole body is
// treated as a single record and flows through the same normalizer.
type bufferedExtractor struct{}

func (e *bufferedExtractor) Style() protocol.APIStyle {
	return protocol.APIStyleBuffered
}

func (e *bufferedExtractor) Extract(payload string) (*RawDelta, error) {
	if !gjson.Valid(payload) {
		return nil, &ParseError{Payload: payload, Reason: "invalid JSON"}
	}
	root := gjson.Parse(payload)

	raw := &RawDelta{}
	if errMsg := root.Get("error.message"); errMsg.Exists() {
		raw.ErrorMessage = errMsg.String()
		raw.ErrorType = root.Get("error.type").String()
		return raw, nil
	}

	choice := root.Get("choices.0")
	message := choice.Get("message")

	raw.Content = message.Get("content").String()
	if thinking := message.Get("reasoning_content"); thinking.Exists() {
		raw.Thinking = thinking.String()
	}

	toolIndex := 0
	message.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
		raw.ToolCalls = append(raw.ToolCalls, ToolCallFragment{
			Index:     toolIndex,
			ID:        tc.Get("id").String(),
			Name:      tc.Get("function.name").String(),
			Arguments: tc.Get("function.arguments").String(),
		})
		toolIndex++
		return true
	})

	raw.FinishReason = choice.Get("finish_reason").String()
	raw.Usage = extractOpenAIUsage(root.Get("usage"))

	return raw, nil
}

// anthropicBufferedExtractor handles a complete Anthropic messages body:
// content blocks in an array, stop_reason and usage at the top level.
type anthropicBufferedExtractor struct{}

func (e *anthropicBufferedExtractor) Style() protocol.APIStyle {
	return protocol.APIStyleAnthropic
}

func (e *anthropicBufferedExtractor) Extract(payload string) (*RawDelta, error) {
	if !gjson.Valid(payload) {
		return nil, &ParseError{Payload: payload, Reason: "invalid JSON"}
	}
	root := gjson.Parse(payload)

	raw := &RawDelta{}
	if errMsg := root.Get("error.message"); errMsg.Exists() {
		raw.ErrorMessage = errMsg.String()
		raw.ErrorType = root.Get("error.type").String()
		return raw, nil
	}

	toolIndex := 0
	root.Get("content").ForEach(func(_, block gjson.Result) bool {
		switch block.Get("type").String() {
		case "text":
			raw.Content += block.Get("text").String()
		case "thinking":
			raw.Thinking += block.Get("thinking").String()
		case "tool_use":
			raw.ToolCalls = append(raw.ToolCalls, ToolCallFragment{
				Index:     toolIndex,
				ID:        block.Get("id").String(),
				Name:      block.Get("name").String(),
				Arguments: block.Get("input").Raw,
			})
			toolIndex++
		}
		return true
	})

	raw.FinishReason = root.Get("stop_reason").String()
	if usage := root.Get("usage"); usage.Exists() && usage.IsObject() {
		u := &event.Usage{
			PromptTokens:     int(usage.Get("input_tokens").Int()),
			CompletionTokens: int(usage.Get("output_tokens").Int()),
		}
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
		if u.TotalTokens > 0 {
			raw.Usage = u
		}
	}

	return raw, nil
}
