// Package openai encodes and decodes the OpenAI compatible chat completions
// format spoken by the AI gateway.
package openai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gruhabuddy/gruha/pkg/llm"
)

// provider implements the Provider interface for OpenAI's Chat Completions API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "openai"
}

func (o *provider) RequiresAPIKey() bool { return true }

func (o *provider) StreamFraming() string { return "sse" }

func (o *provider) BuildRequest(req *llm.ChatRequest) ([]byte, error) {
	messages := make([]openaiMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openaiMessage{
			Role:    msg.Role,
			Content: msg.GetText(),
		})
	}

	return json.Marshal(openaiRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		Stream:      req.Stream,
	})
}

func (o *provider) ParseResponse(payload []byte) (*llm.ChatResponse, error) {
	var resp openaiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}

	result := &llm.ChatResponse{
		Model:       resp.Model,
		Message:     llm.Message{Role: llm.RoleAssistant, Content: []llm.ContentBlock{}},
		RawResponse: payload,
	}
	if resp.Created > 0 {
		result.CreatedAt = time.Unix(resp.Created, 0)
	}
	if resp.Usage != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	// A success body without choices still yields empty content.
	if len(resp.Choices) == 0 {
		return result, nil
	}

	choice := resp.Choices[0]
	result.StopReason = choice.FinishReason
	if choice.Message.Role != "" {
		result.Message.Role = choice.Message.Role
	}

	switch c := choice.Message.Content.(type) {
	case string:
		result.Message.Content = []llm.ContentBlock{{Type: "text", Text: c}}
	case []any:
		for _, item := range c {
			part, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := part["text"].(string); ok {
				result.Message.Content = append(result.Message.Content, llm.ContentBlock{Type: "text", Text: text})
			}
		}
	case nil:
	default:
		return nil, fmt.Errorf("unexpected content type %T", c)
	}

	return result, nil
}

func (o *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	data := strings.TrimSpace(string(payload))
	if data == "" || data == "[DONE]" {
		return nil, nil
	}

	var chunk openaiChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return nil, err
	}

	result := &llm.StreamChunk{
		Model:   chunk.Model,
		Message: llm.Message{Role: llm.RoleAssistant},
	}
	if chunk.Created > 0 {
		result.CreatedAt = time.Unix(chunk.Created, 0)
	}
	if chunk.Usage != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}

	if len(chunk.Choices) > 0 {
		choice := chunk.Choices[0]
		if choice.Delta.Content != "" {
			result.Message.Content = []llm.ContentBlock{{Type: "text", Text: choice.Delta.Content}}
		}
		if choice.FinishReason != nil {
			result.Done = true
			result.StopReason = *choice.FinishReason
		}
	}

	return result, nil
}
