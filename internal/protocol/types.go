package protocol

// APIStyle represents the wire format an upstream provider speaks
type APIStyle string

const (
	APIStyleOpenAI    APIStyle = "openai"
	APIStyleAnthropic APIStyle = "anthropic"
	APIStyleGoogle    APIStyle = "google"

	// APIStyleBuffered is the degenerate style for providers that return a
	// single fully-buffered JSON body instead of an SSE stream.
	APIStyleBuffered APIStyle = "buffered"
)

// Valid reports whether the style is one of the known API styles.
func (s APIStyle) Valid() bool {
	switch s {
	case APIStyleOpenAI, APIStyleAnthropic, APIStyleGoogle, APIStyleBuffered:
		return true
	}
	return false
}
