package dispatcher

import "github.com/gruhabuddy/gruha/pkg/eventstream"

// Config is the dispatcher server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Publisher receives a design event per answered request.
	// If nil, events are discarded.
	Publisher eventstream.Publisher

	// EventWorkers is the number of event publishing workers (defaults to 3).
	EventWorkers uint

	// EventQueueSize bounds pending events before they are dropped (defaults to 256).
	EventQueueSize uint
}
