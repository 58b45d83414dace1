package eventstream

import (
	"time"

	"github.com/gruhabuddy/gruha/pkg/llm"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDesignCompleted is emitted after a design action request is answered.
	EventTypeDesignCompleted = "gruha.design.completed"

	// EventTypeChatCompleted is emitted after an assistant chat stream ends.
	EventTypeChatCompleted = "gruha.chat.completed"
)

// Outcomes reported on design events.
const (
	OutcomeParsed = "parsed"
	OutcomeRaw    = "raw"
	OutcomeError  = "error"
)

// DesignEvent is a transport-neutral record of one answered request. It
// never carries prompt text or client supplied data.
type DesignEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Request       RequestMeta `json:"request"`
	Result        ResultMeta  `json:"result"`
}

// EventSource identifies which gateway answered the request.
type EventSource struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// RequestMeta captures request lifecycle metadata for the event.
type RequestMeta struct {
	RequestID   string    `json:"request_id"`
	Action      string    `json:"action,omitempty"`
	Path        string    `json:"path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	Streaming   bool      `json:"streaming"`
	HTTPStatus  int       `json:"http_status"`
}

// ResultMeta describes what the client received.
type ResultMeta struct {
	Outcome          string     `json:"outcome"`
	UpstreamStatus   int        `json:"upstream_status,omitempty"`
	SchemaConforming *bool      `json:"schema_conforming,omitempty"`
	Usage            *llm.Usage `json:"usage,omitempty"`
}
