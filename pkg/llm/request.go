package llm

// ChatRequest represents a provider-agnostic chat completion request.
// Providers encode it into their own wire format before it is sent upstream.
type ChatRequest struct {
	// Model name (e.g., "google/gemini-3-flash-preview", "llama3.2")
	Model string `json:"model"`

	// Conversation messages, system prompt first
	Messages []Message `json:"messages"`

	// Whether to stream the response
	Stream bool `json:"stream,omitempty"`

	// Sampling temperature, omitted upstream when nil
	Temperature *float64 `json:"temperature,omitempty"`
}

// NewPromptRequest builds the two message request used for every design action.
func NewPromptRequest(model, system, user string, temperature *float64) *ChatRequest {
	return &ChatRequest{
		Model: model,
		Messages: []Message{
			NewTextMessage(RoleSystem, system),
			NewTextMessage(RoleUser, user),
		},
		Temperature: temperature,
	}
}
