package design

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is an optional prompt field as sent by the web client, which mixes
// strings, numbers and booleans for the same field. Empty strings, zero and
// false count as absent so that defaults apply. Objects are kept as compact
// JSON text.
type Text struct {
	value string
	set   bool
}

// NewText returns a Text holding s. An empty s is absent.
func NewText(s string) Text {
	return Text{value: s, set: s != ""}
}

// Or returns the value, or def when the field is absent.
func (t Text) Or(def string) string {
	if !t.set {
		return def
	}
	return t.value
}

// IsSet reports whether the field carries a usable value.
func (t Text) IsSet() bool {
	return t.set
}

func (t Text) String() string {
	return t.value
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Text{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case 'n':
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = NewText(s)
		return nil
	case 't':
		*t = Text{value: "true", set: true}
		return nil
	case 'f':
		return nil
	case '[':
		// Lists render comma joined.
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.value)
		}
		*t = Text{value: strings.Join(parts, ","), set: true}
		return nil
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text{value: buf.String(), set: true}
		return nil
	}

	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	*t = Text{value: string(data), set: true}
	return nil
}
