package eventstream

import "errors"

// ErrNilDesignEvent indicates a nil design event payload was provided to a publisher.
var ErrNilDesignEvent = errors.New("nil design event")
