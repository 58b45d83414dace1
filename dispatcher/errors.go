package dispatcher

import (
	"fmt"
	"net/http"
)

// Client facing error messages.
const (
	MsgInvalidBody         = "Invalid request body"
	MsgUnknownAction       = "Unknown action"
	MsgInvalidData         = "Invalid data for action"
	MsgInvalidChat         = "Invalid chat messages"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgRateLimited         = "Rate limit exceeded. Please try again in a moment."
	MsgCreditsExhausted    = "AI credits exhausted. Please add credits in workspace settings."
	MsgUpstreamUnavailable = "AI service temporarily unavailable"
)

// UpstreamError is a non-2xx reply from the AI gateway.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI gateway error: status %d", e.StatusCode)
}

// RateLimited reports an upstream 429.
func (e *UpstreamError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// CreditsExhausted reports an upstream 402.
func (e *UpstreamError) CreditsExhausted() bool {
	return e.StatusCode == http.StatusPaymentRequired
}

// ClientStatus is the status relayed to the client. Only rate limiting and
// billing failures pass through; everything else becomes a 500.
func (e *UpstreamError) ClientStatus() int {
	switch {
	case e.RateLimited():
		return http.StatusTooManyRequests
	case e.CreditsExhausted():
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage is the message relayed to the client. The upstream body is
// never exposed.
func (e *UpstreamError) ClientMessage() string {
	switch {
	case e.RateLimited():
		return MsgRateLimited
	case e.CreditsExhausted():
		return MsgCreditsExhausted
	default:
		return MsgUpstreamUnavailable
	}
}
