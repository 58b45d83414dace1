package dispatcher

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/eventstream"
	"github.com/gruhabuddy/gruha/pkg/llm"
	"github.com/gruhabuddy/gruha/pkg/llm/provider"
	"github.com/gruhabuddy/gruha/pkg/prompt"
	"github.com/gruhabuddy/gruha/pkg/sse"
)

// ChatRequest is the body of an assistant chat request.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage is one turn of the client side conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// deltaChunk is the OpenAI style chunk emitted to chat clients.
type deltaChunk struct {
	Model   string        `json:"model,omitempty"`
	Choices []deltaChoice `json:"choices"`
}

type deltaChoice struct {
	Index        int        `json:"index"`
	Delta        deltaBlock `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type deltaBlock struct {
	Content string `json:"content,omitempty"`
}

// messages converts the conversation into gateway messages with the
// assistant persona first. It returns false for an empty conversation or
// unknown roles.
func (r ChatRequest) messages() ([]llm.Message, bool) {
	if len(r.Messages) == 0 {
		return nil, false
	}

	out := make([]llm.Message, 0, len(r.Messages)+1)
	out = append(out, llm.NewTextMessage(llm.RoleSystem, prompt.ChatSystemPrompt()))
	for _, m := range r.Messages {
		if !llm.ValidChatRole(m.Role) {
			return nil, false
		}
		out = append(out, llm.NewTextMessage(m.Role, m.Content))
	}
	return out, true
}

// handleChat relays a streaming assistant chat. Upstream failures map to
// the same statuses as design actions; a successful stream is relayed as
// OpenAI style SSE terminated by [DONE].
func (d *Dispatcher) handleChat(c *fiber.Ctx) error {
	t := d.newTrace(c.Path())
	t.eventType = eventstream.EventTypeChatCompleted
	t.streaming = true

	var req ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		out := failure(fiber.StatusBadRequest, MsgInvalidBody)
		d.finish(t, out)
		return d.respond(c, out)
	}

	messages, ok := req.messages()
	if !ok {
		out := failure(fiber.StatusBadRequest, MsgInvalidChat)
		d.finish(t, out)
		return d.respond(c, out)
	}

	// The stream outlives the handler: fasthttp recycles its RequestCtx once
	// the handler returns, so the upstream call cannot use it.
	httpResp, err := d.gateway.Stream(context.Background(), messages)
	if err != nil {
		out := d.internal(t, err)
		d.finish(t, out)
		return d.respond(c, out)
	}
	t.upstreamStatus = httpResp.StatusCode

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()

		upErr := &UpstreamError{StatusCode: httpResp.StatusCode, Body: string(body)}
		if !upErr.RateLimited() && !upErr.CreditsExhausted() {
			d.logger.Error("AI gateway error",
				zap.String("request_id", t.requestID),
				zap.Int("status", upErr.StatusCode),
				zap.String("body", upErr.Body),
			)
		}
		out := failure(upErr.ClientStatus(), upErr.ClientMessage())
		d.finish(t, out)
		return d.respond(c, out)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Status(fiber.StatusOK)

	// io.Pipe gives per chunk flushing: pw.Write blocks until fasthttp has
	// consumed the chunk and written it to the socket.
	pr, pw := io.Pipe()
	go d.relayStream(httpResp, pw, t)

	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}

func (d *Dispatcher) relayStream(httpResp *http.Response, pw *io.PipeWriter, t *trace) {
	defer httpResp.Body.Close()
	defer pw.Close()

	var content strings.Builder
	var usage *llm.Usage

	collect := func(chunk *llm.StreamChunk) {
		content.WriteString(chunk.Message.GetText())
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}

	var err error
	switch ct := httpResp.Header.Get("Content-Type"); {
	case strings.HasPrefix(ct, "text/event-stream"):
		err = d.teeSSE(httpResp.Body, pw, collect)
	default:
		err = d.convertNDJSON(httpResp.Body, pw, collect)
	}
	if err != nil {
		d.logger.Error("error relaying chat stream",
			zap.String("request_id", t.requestID),
			zap.Error(err),
		)
	}

	t.usage = usage
	t.outcome = eventstream.OutcomeRaw
	d.logger.Debug("chat stream complete",
		zap.String("request_id", t.requestID),
		zap.Int("content_length", content.Len()),
	)
	d.finish(t, design.Outcome{Status: http.StatusOK, Envelope: design.Success(nil)})
}

// teeSSE forwards an SSE upstream verbatim while parsing its chunks.
func (d *Dispatcher) teeSSE(src io.Reader, pw io.Writer, collect func(*llm.StreamChunk)) error {
	prov := d.gateway.Provider()
	tr := sse.NewTeeReader(src, pw)

	for {
		ev, err := tr.Next()
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}
		if ev.Data == sse.DoneData {
			continue
		}

		chunk, err := parseChunk(prov, ev.Data)
		if err != nil {
			d.logger.Debug("unparsable stream chunk", zap.Error(err))
			continue
		}
		if chunk != nil {
			collect(chunk)
		}
	}
}

// convertNDJSON re-encodes a newline delimited JSON upstream (Ollama) as
// OpenAI style SSE so that clients only deal with one framing.
func (d *Dispatcher) convertNDJSON(src io.Reader, pw io.Writer, collect func(*llm.StreamChunk)) error {
	prov := d.gateway.Provider()

	scanner := bufio.NewScanner(src)
	// Increase buffer size for large chunks
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		chunk, err := parseChunk(prov, scanner.Text())
		if err != nil {
			d.logger.Debug("unparsable stream chunk", zap.Error(err))
			continue
		}
		if chunk == nil {
			continue
		}
		collect(chunk)

		out := deltaChunk{
			Model: chunk.Model,
			Choices: []deltaChoice{{
				Delta: deltaBlock{Content: chunk.Message.GetText()},
			}},
		}
		if chunk.Done {
			reason := chunk.StopReason
			if reason == "" {
				reason = "stop"
			}
			out.Choices[0].FinishReason = &reason
		}
		if err := sse.WriteJSON(pw, out); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return sse.WriteDone(pw)
}

func parseChunk(prov provider.Provider, data string) (*llm.StreamChunk, error) {
	return prov.ParseStreamChunk([]byte(data))
}
