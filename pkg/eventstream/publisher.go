package eventstream

import "context"

// Publisher publishes design events to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, event *DesignEvent) error
	Close() error
}
