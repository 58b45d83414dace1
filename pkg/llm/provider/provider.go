package provider

import "github.com/gruhabuddy/gruha/pkg/llm"

// Stream framings used by providers.
const (
	FramingSSE    = "sse"
	FramingNDJSON = "ndjson"
)

// Provider defines the wire format of one chat-completion gateway family.
// Each implementation knows how to encode the internal request and decode
// replies and streaming chunks back into the internal representation.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openai", "ollama")
	Name() string

	// RequiresAPIKey reports whether requests must carry a bearer credential.
	RequiresAPIKey() bool

	// StreamFraming returns how streamed replies are framed on the wire.
	StreamFraming() string

	// BuildRequest encodes the internal request into the provider's format.
	BuildRequest(req *llm.ChatRequest) ([]byte, error)

	// ParseResponse converts a provider-specific response into the internal format.
	// Returns an error if the payload cannot be parsed.
	ParseResponse(payload []byte) (*llm.ChatResponse, error)

	// ParseStreamChunk converts a single streaming chunk into the internal format.
	// Returns (nil, nil) if the chunk should be skipped (e.g., keep-alive, comments).
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}
