package adaptor

import (
	"github.com/tidwall/gjson"

	"github.com/tingly-dev/streambox/internal/protocol"
	"github.com/tingly-dev/streambox/pkg/event"
)

// googleExtractor understands Gemini streamGenerateContent responses
// (alt=sse): candidates[0].content.parts with thought-flagged text and
// inline functionCall objects. Gemini reports no call index of its own and
// parallel calls may arrive in separate records, so the extractor numbers
// functionCall parts across the whole stream.
type googleExtractor struct {
	toolCalls int
}

func (e *googleExtractor) Style() protocol.APIStyle {
	return protocol.APIStyleGoogle
}

func (e *googleExtractor) Extract(payload string) (*RawDelta, error) {
	if !gjson.Valid(payload) {
		return nil, &ParseError{Payload: payload, Reason: "invalid JSON"}
	}
	root := gjson.Parse(payload)

	raw := &RawDelta{}
	if errMsg := root.Get("error.message"); errMsg.Exists() {
		raw.ErrorMessage = errMsg.String()
		raw.ErrorType = root.Get("error.status").String()
		return raw, nil
	}

	candidate := root.Get("candidates.0")
	candidate.Get("content.parts").ForEach(func(_, part gjson.Result) bool {
		if fc := part.Get("functionCall"); fc.Exists() {
			// Gemini sends complete call arguments in one part; the index
			// just distinguishes parallel calls within the stream.
			raw.ToolCalls = append(raw.ToolCalls, ToolCallFragment{
				Index:     e.toolCalls,
				Name:      fc.Get("name").String(),
				Arguments: fc.Get("args").Raw,
			})
			e.toolCalls++
			return true
		}
		text := part.Get("text").String()
		if part.Get("thought").Bool() {
			raw.Thinking += text
		} else {
			raw.Content += text
		}
		return true
	})

	raw.FinishReason = candidate.Get("finishReason").String()

	if usage := root.Get("usageMetadata"); usage.Exists() && usage.IsObject() {
		u := &event.Usage{
			PromptTokens:     int(usage.Get("promptTokenCount").Int()),
			CompletionTokens: int(usage.Get("candidatesTokenCount").Int()),
			TotalTokens:      int(usage.Get("totalTokenCount").Int()),
		}
		if u.TotalTokens == 0 {
			u.TotalTokens = u.PromptTokens + u.CompletionTokens
		}
		if u.TotalTokens > 0 {
			raw.Usage = u
		}
	}

	return raw, nil
}
