package ollama

import (
	"encoding/json"
	"strings"

	"github.com/gruhabuddy/gruha/pkg/llm"
)

// provider implements the Provider interface for Ollama's chat API.
// Useful for running the dispatcher against a local model.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "ollama"
}

func (o *provider) RequiresAPIKey() bool { return false }

func (o *provider) StreamFraming() string { return "ndjson" }

func (o *provider) BuildRequest(req *llm.ChatRequest) ([]byte, error) {
	messages := make([]ollamaMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, ollamaMessage{Role: msg.Role, Content: msg.GetText()})
	}

	// Ollama streams by default, so the flag is always explicit.
	stream := req.Stream
	out := ollamaRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
	}
	if req.Temperature != nil {
		out.Options = &ollamaOptions{Temperature: req.Temperature}
	}

	return json.Marshal(out)
}

func (o *provider) ParseResponse(payload []byte) (*llm.ChatResponse, error) {
	var resp ollamaResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}

	role := resp.Message.Role
	if role == "" {
		role = llm.RoleAssistant
	}

	stopReason := resp.DoneReason
	if stopReason == "" && resp.Done {
		stopReason = "stop"
	}

	return &llm.ChatResponse{
		Model: resp.Model,
		Message: llm.Message{
			Role:    role,
			Content: []llm.ContentBlock{{Type: "text", Text: resp.Message.Content}},
		},
		StopReason:  stopReason,
		Usage:       usageOf(&resp),
		CreatedAt:   resp.CreatedAt,
		RawResponse: payload,
	}, nil
}

func (o *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	if strings.TrimSpace(string(payload)) == "" {
		return nil, nil
	}

	var resp ollamaResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}

	chunk := &llm.StreamChunk{
		Model:      resp.Model,
		CreatedAt:  resp.CreatedAt,
		Message:    llm.Message{Role: llm.RoleAssistant},
		Done:       resp.Done,
		StopReason: resp.DoneReason,
	}
	if resp.Message.Content != "" {
		chunk.Message.Content = []llm.ContentBlock{{Type: "text", Text: resp.Message.Content}}
	}
	if resp.Done {
		chunk.Usage = usageOf(&resp)
	}

	return chunk, nil
}

// usageOf maps Ollama eval counters to the common Usage format.
func usageOf(resp *ollamaResponse) *llm.Usage {
	if resp.PromptEvalCount == 0 && resp.EvalCount == 0 && resp.TotalDuration == 0 {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		TotalDurationNs:  resp.TotalDuration,
	}
}
