// Package sse reads and writes the SSE (Server-Sent Events) framing used by
// the assistant chat relay. The reader parses events from the gateway while
// teeing the raw bytes to the client; the writer frames re-encoded chunks.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the "event:" field. Empty means "message".
	Type string

	// Data is all "data:" lines of the event joined with "\n".
	Data string

	// ID is the last "id:" field, if present.
	ID string
}
