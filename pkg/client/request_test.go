package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tingly-dev/streambox/internal/constant"
	"github.com/tingly-dev/streambox/internal/protocol"
)

func TestBuildOpenAIBody(t *testing.T) {
	temp := 0.7
	body, err := buildBody(protocol.APIStyleOpenAI, &Request{
		Model:       "gpt-4o",
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: &temp,
	}, true)
	require.NoError(t, err)

	js := string(body)
	assert.Equal(t, "gpt-4o", gjson.Get(js, "model").String())
	assert.True(t, gjson.Get(js, "stream").Bool())
	assert.True(t, gjson.Get(js, "stream_options.include_usage").Bool())
	assert.Equal(t, 0.7, gjson.Get(js, "temperature").Float())
	assert.False(t, gjson.Get(js, "max_tokens").Exists())
	assert.False(t, gjson.Get(js, "top_p").Exists())
}

func TestBuildAnthropicBodyHoistsSystem(t *testing.T) {
	body, err := buildBody(protocol.APIStyleAnthropic, &Request{
		Model: "claude-sonnet",
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		},
	}, true)
	require.NoError(t, err)

	js := string(body)
	assert.Equal(t, "be brief", gjson.Get(js, "system").String())
	require.Equal(t, int64(1), gjson.Get(js, "messages.#").Int())
	assert.Equal(t, "user", gjson.Get(js, "messages.0.role").String())
	assert.Equal(t, int64(constant.DefaultMaxTokens), gjson.Get(js, "max_tokens").Int())
}

func TestBuildGoogleBody(t *testing.T) {
	body, err := buildBody(protocol.APIStyleGoogle, &Request{
		Model: "gemini-pro",
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
		MaxTokens: 256,
	}, true)
	require.NoError(t, err)

	js := string(body)
	assert.Equal(t, "be brief", gjson.Get(js, "systemInstruction.parts.0.text").String())
	assert.Equal(t, "user", gjson.Get(js, "contents.0.role").String())
	assert.Equal(t, "model", gjson.Get(js, "contents.1.role").String())
	assert.Equal(t, int64(256), gjson.Get(js, "generationConfig.maxOutputTokens").Int())
}

func TestApplyHeadersPerStyle(t *testing.T) {
	h := http.Header{}
	applyHeaders(h, &Provider{Token: "tok", APIStyle: protocol.APIStyleOpenAI})
	assert.Equal(t, "Bearer tok", h.Get("Authorization"))

	h = http.Header{}
	applyHeaders(h, &Provider{Token: "tok", APIStyle: protocol.APIStyleAnthropic})
	assert.Equal(t, "tok", h.Get("x-api-key"))
	assert.Equal(t, constant.AnthropicVersion, h.Get("anthropic-version"))

	h = http.Header{}
	applyHeaders(h, &Provider{Token: "tok", APIStyle: protocol.APIStyleGoogle})
	assert.Equal(t, "tok", h.Get("x-goog-api-key"))
	assert.Empty(t, h.Get("Authorization"))
}
