package constant

const (
	// DefaultRequestTimeout is the default timeout for streaming HTTP requests in seconds
	DefaultRequestTimeout = 1800

	// DefaultMaxTokens is the default max_tokens value for API requests
	DefaultMaxTokens = 8192

	// StreamReadBufferSize is the size of the chunk buffer used when reading
	// a streaming response body
	StreamReadBufferSize = 8 * 1024

	// AnthropicVersion is the value sent in the anthropic-version header
	AnthropicVersion = "2023-06-01"
)
