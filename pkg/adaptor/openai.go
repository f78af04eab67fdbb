package adaptor

import (
	"github.com/tidwall/gjson"

	"github.com/tingly-dev/streambox/internal/protocol"
	"github.com/tingly-dev/streambox/pkg/event"
)

// openAIExtractor understands OpenAI chat completion chunks, i.e. the
// "choices[0].delta" shape also spoken by the many OpenAI-compatible
// providers (DeepSeek, Groq, local gateways).
type openAIExtractor struct{}

func (e *openAIExtractor) Style() protocol.APIStyle {
	return protocol.APIStyleOpenAI
}

func (e *openAIExtractor) Extract(payload string) (*RawDelta, error) {
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

	// Some gateways flatten the chunk to a top-level delta instead of the
	// usual choices array; treat the root as the choice in that case.
	choice := root.Get("choices.0")
	if !root.Get("choices").Exists() {
		choice = root
	}
	delta := choice.Get("delta")

	raw.Content = delta.Get("content").String()

	// DeepSeek-style reasoning arrives under reasoning_content; some
	// gateways shorten it to reasoning.
	if thinking := delta.Get("reasoning_content"); thinking.Exists() {
		raw.Thinking = thinking.String()
	} else {
		raw.Thinking = delta.Get("reasoning").String()
	}

	delta.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
		raw.ToolCalls = append(raw.ToolCalls, ToolCallFragment{
			Index:     int(tc.Get("index").Int()),
			ID:        tc.Get("id").String(),
			Name:      tc.Get("function.name").String(),
			Arguments: tc.Get("function.arguments").String(),
		})
		return true
	})

	raw.FinishReason = choice.Get("finish_reason").String()
	raw.Usage = extractOpenAIUsage(root.Get("usage"))

	return raw, nil
}

// extractOpenAIUsage reads prompt/completion/total token counts, filling in
// the total when the provider only reports the parts.
func extractOpenAIUsage(usage gjson.Result) *event.Usage {
	if !usage.Exists() || !usage.IsObject() {
		return nil
	}
	u := &event.Usage{
		PromptTokens:     int(usage.Get("prompt_tokens").Int()),
		CompletionTokens: int(usage.Get("completion_tokens").Int()),
		TotalTokens:      int(usage.Get("total_tokens").Int()),
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	if u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0 {
		return nil
	}
	return u
}
