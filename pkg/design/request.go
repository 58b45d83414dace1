package design

import (
	"encoding/json"
	"errors"
)

// ErrInvalidBody is returned when a request body is not a JSON object.
var ErrInvalidBody = errors.New("request body is not a JSON object")

// Request is a client dispatch request.
type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ParseRequest decodes a dispatch request body. A non-string action is kept
// as an empty name so that it is later rejected as unknown rather than as a
// malformed body.
func ParseRequest(body []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Request{}, ErrInvalidBody
	}

	var req Request
	if raw, ok := fields["action"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			req.Action = name
		}
	}
	req.Data = fields["data"]
	return req, nil
}
