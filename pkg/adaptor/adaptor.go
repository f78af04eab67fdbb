// Package adaptor extracts provider-specific streaming payloads into a
// shared raw delta shape and normalizes them to provider-agnostic events.
// Each supported API style has exactly one extractor; the style is chosen
// once per session rather than sniffed per record.
package adaptor

import (
	"fmt"

	"github.com/tingly-dev/streambox/internal/protocol"
	"github.com/tingly-dev/streambox/pkg/event"
)

// ToolCallFragment is one provider-reported piece of a streamed tool call.
type ToolCallFragment struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// RawDelta is the decoded content of a single record before normalization.
// Every field is optional; a record may carry any subset.
type RawDelta struct {
	Content      string
	Thinking     string
	ToolCalls    []ToolCallFragment
	FinishReason string
	Usage        *event.Usage

	// ErrorType/ErrorMessage are set when the provider streamed an error
	// payload instead of a delta
	ErrorType    string
	ErrorMessage string
}

// IsZero reports whether the delta carries nothing at all.
func (d *RawDelta) IsZero() bool {
	return d.Content == "" && d.Thinking == "" && len(d.ToolCalls) == 0 &&
		d.FinishReason == "" && d.Usage == nil && d.ErrorMessage == "" && d.ErrorType == ""
}

// ParseError reports a record whose payload could not be parsed. It is
// non-fatal: the caller skips the record and continues the stream.
type ParseError struct {
	Payload string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("adaptor: malformed payload (%s): %.80q", e.Reason, e.Payload)
}

// Extractor parses one record's payload into a RawDelta.
type Extractor interface {
	// Style returns the API style this extractor understands
	Style() protocol.APIStyle

	// Extract parses a single payload string. A *ParseError return means
	// the record should be skipped, not that the stream failed.
	Extract(payload string) (*RawDelta, error)
}

// ForStyle returns the extractor for a provider's API style. The set of
// styles is closed; unknown styles are an error at session setup time.
func ForStyle(style protocol.APIStyle) (Extractor, error) {
	switch style {
	case protocol.APIStyleOpenAI:
		return &openAIExtractor{}, nil
	case protocol.APIStyleAnthropic:
		return &anthropicExtractor{}, nil
	case protocol.APIStyleGoogle:
		return &googleExtractor{}, nil
	case protocol.APIStyleBuffered:
		return &bufferedExtractor{}, nil
	default:
		return nil, fmt.Errorf("adaptor: unsupported API style: %s", style)
	}
}

// ForBuffered returns the extractor for a provider's fully-buffered (non-SSE)
// response body. Buffered Gemini bodies share the streaming record shape;
// OpenAI and Anthropic buffered bodies differ from their chunk shapes and
// need dedicated extraction.
func ForBuffered(style protocol.APIStyle) Extractor {
	switch style {
	case protocol.APIStyleAnthropic:
		return &anthropicBufferedExtractor{}
	case protocol.APIStyleGoogle:
		return &googleExtractor{}
	default:
		return &bufferedExtractor{}
	}
}
