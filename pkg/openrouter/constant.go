package openrouter

import "time"

const (
	// DefaultBaseURL is the default OpenRouter API endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the default model to use.
	DefaultModel = "anthropic/claude-3-sonnet"

	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultMaxTokens   = 150

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxAttempts    = 5
	DefaultMaxElapsed     = 60 * time.Second
	DefaultRetryDelay     = time.Second
)

// statusEdgeSSL is Cloudflare's "SSL handshake failed" edge status.
// OpenRouter sits behind Cloudflare and surfaces it intermittently.
const statusEdgeSSL = 525
