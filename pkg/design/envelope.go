package design

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Envelope is the body of every dispatch response. It always encodes to an
// object with exactly one of "result" or "error".
type Envelope struct {
	result  json.RawMessage
	message string
	failed  bool
}

// Success wraps a result value. A nil result encodes as null.
func Success(result json.RawMessage) Envelope {
	return Envelope{result: result}
}

// Failure wraps a human readable error message.
func Failure(message string) Envelope {
	return Envelope{message: message, failed: true}
}

// IsError reports whether the envelope carries an error.
func (e Envelope) IsError() bool {
	return e.failed
}

// Result returns the success value, nil for failures.
func (e Envelope) Result() json.RawMessage {
	if e.failed {
		return nil
	}
	return e.result
}

// Message returns the failure message, empty for successes.
func (e Envelope) Message() string {
	return e.message
}

type successBody struct {
	Result json.RawMessage `json:"result"`
}

type failureBody struct {
	Error string `json:"error"`
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.failed {
		return json.Marshal(failureBody{Error: e.message})
	}
	result := e.result
	if len(bytes.TrimSpace(result)) == 0 {
		result = json.RawMessage("null")
	}
	return json.Marshal(successBody{Result: result})
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return err
		}
		*e = Failure(msg)
		return nil
	}
	if raw, ok := fields["result"]; ok {
		*e = Success(raw)
		return nil
	}
	return errors.New("envelope has neither result nor error")
}

// Outcome is the HTTP status and envelope produced for one request.
type Outcome struct {
	Status   int
	Envelope Envelope
}
