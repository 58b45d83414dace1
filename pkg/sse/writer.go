package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DoneData is the data payload that terminates an OpenAI style stream.
const DoneData = "[DONE]"

// WriteData writes one "data:" event. Multi-line payloads are split into
// several data lines so that readers rejoin them unchanged.
func WriteData(w io.Writer, data string) error {
	var b strings.Builder
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON encodes v and writes it as one data event.
func WriteJSON(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return WriteData(w, string(payload))
}

// WriteDone writes the stream terminator event.
func WriteDone(w io.Writer) error {
	return WriteData(w, DoneData)
}
