package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/sjson"

	"github.com/tingly-dev/streambox/internal/constant"
	"github.com/tingly-dev/streambox/internal/protocol"
)

// Message is one turn of the conversation being sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request holds the provider-agnostic parameters of a chat request. Only
// Model and Messages are required; sampling parameters are sent upstream
// only when set.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
}

// buildBody constructs the per-style JSON request body.
func buildBody(style protocol.APIStyle, req *Request, streaming bool) ([]byte, error) {
	switch style {
	case protocol.APIStyleAnthropic:
		return buildAnthropicBody(req, streaming)
	case protocol.APIStyleGoogle:
		return buildGoogleBody(req)
	default:
		return buildOpenAIBody(req, streaming)
	}
}

func buildOpenAIBody(req *Request, streaming bool) ([]byte, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":    req.Model,
		"messages": req.Messages,
		"stream":   streaming,
	})
	if err != nil {
		return nil, err
	}
	if streaming {
		// Ask for the trailing usage chunk.
		body, _ = sjson.SetBytes(body, "stream_options.include_usage", true)
	}
	if req.MaxTokens > 0 {
		body, _ = sjson.SetBytes(body, "max_tokens", req.MaxTokens)
	}
	if req.Temperature != nil {
		body, _ = sjson.SetBytes(body, "temperature", *req.Temperature)
	}
	if req.TopP != nil {
		body, _ = sjson.SetBytes(body, "top_p", *req.TopP)
	}
	return body, nil
}

func buildAnthropicBody(req *Request, streaming bool) ([]byte, error) {
	// Anthropic carries the system prompt as a top-level field.
	var system string
	messages := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = m.Content
			continue
		}
		messages = append(messages, m)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = constant.DefaultMaxTokens
	}

	body, err := json.Marshal(map[string]interface{}{
		"model":      req.Model,
		"messages":   messages,
		"max_tokens": maxTokens,
		"stream":     streaming,
	})
	if err != nil {
		return nil, err
	}
	if system != "" {
		body, _ = sjson.SetBytes(body, "system", system)
	}
	if req.Temperature != nil {
		body, _ = sjson.SetBytes(body, "temperature", *req.Temperature)
	}
	if req.TopP != nil {
		body, _ = sjson.SetBytes(body, "top_p", *req.TopP)
	}
	return body, nil
}

func buildGoogleBody(req *Request) ([]byte, error) {
	type googlePart struct {
		Text string `json:"text"`
	}
	type googleContent struct {
		Role  string       `json:"role"`
		Parts []googlePart `json:"parts"`
	}

	var contents []googleContent
	var system string
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			system = m.Content
		case "assistant":
			contents = append(contents, googleContent{Role: "model", Parts: []googlePart{{Text: m.Content}}})
		default:
			contents = append(contents, googleContent{Role: "user", Parts: []googlePart{{Text: m.Content}}})
		}
	}

	body, err := json.Marshal(map[string]interface{}{
		"contents": contents,
	})
	if err != nil {
		return nil, err
	}
	if system != "" {
		body, _ = sjson.SetBytes(body, "systemInstruction.parts.0.text", system)
	}
	if req.MaxTokens > 0 {
		body, _ = sjson.SetBytes(body, "generationConfig.maxOutputTokens", req.MaxTokens)
	}
	if req.Temperature != nil {
		body, _ = sjson.SetBytes(body, "generationConfig.temperature", *req.Temperature)
	}
	return body, nil
}

// applyHeaders sets per-style auth and content headers.
func applyHeaders(h http.Header, p *Provider) {
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "text/event-stream")
	switch p.APIStyle {
	case protocol.APIStyleAnthropic:
		h.Set("x-api-key", p.Token)
		h.Set("anthropic-version", constant.AnthropicVersion)
	case protocol.APIStyleGoogle:
		h.Set("x-goog-api-key", p.Token)
	default:
		h.Set("Authorization", fmt.Sprintf("Bearer %s", p.Token))
	}
}
