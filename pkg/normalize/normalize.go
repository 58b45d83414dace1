// Package normalize turns free form model output into the JSON value
// returned to clients.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fence matches the first fenced code block, optionally tagged json. The
// interior is matched lazily so only the first block is taken.
var fence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Kinds reported by Result.Kind.
const (
	KindParsed = "parsed"
	KindRaw    = "raw"
)

// Result is the outcome of normalizing model text: either Parsed or Unparsed.
type Result interface {
	// Payload returns the JSON value sent to the client.
	Payload() json.RawMessage

	// Kind returns KindParsed or KindRaw.
	Kind() string

	isResult()
}

// Parsed holds model output that was valid JSON.
type Parsed struct {
	Value json.RawMessage
}

func (p Parsed) Payload() json.RawMessage { return p.Value }
func (Parsed) Kind() string { return KindParsed }
func (Parsed) isResult() {}

// Unparsed holds model output that could not be read as JSON.
type Unparsed struct {
	Raw string
}

type rawBody struct {
	RawResponse string `json:"rawResponse"`
}

func (u Unparsed) Payload() json.RawMessage {
	out, err := json.Marshal(rawBody{RawResponse: u.Raw})
	if err != nil {
		// Marshalling a string field cannot fail.
		panic(err)
	}
	return out
}

func (Unparsed) Kind() string { return KindRaw }
func (Unparsed) isResult() {}

// Normalize extracts a JSON value from text. The first fenced block wins if
// present, otherwise the whole trimmed text is tried. Anything unreadable is
// returned as Unparsed with the original text unchanged.
func Normalize(text string) Result {
	candidate := strings.TrimSpace(text)
	if m := fence.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	if candidate != "" && json.Valid([]byte(candidate)) {
		return Parsed{Value: json.RawMessage(candidate)}
	}
	return Unparsed{Raw: text}
}
