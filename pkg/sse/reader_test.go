package sse

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// collect drains r and returns every event's data.
func collect(r *TeeReader) []string {
	var out []string
	for {
		ev, err := r.Next()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		if ev == nil {
			return out
		}
		out = append(out, ev.Data)
	}
}

var _ = Describe("TeeReader", func() {
	var dst *bytes.Buffer

	BeforeEach(func() {
		dst = &bytes.Buffer{}
	})

	It("parses consecutive events", func() {
		r := NewTeeReader(strings.NewReader("data: first\n\ndata: second\n\n"), dst)
		Expect(collect(r)).To(Equal([]string{"first", "second"}))
	})

	It("reads type and id fields", func() {
		r := NewTeeReader(strings.NewReader("event: delta\nid: 7\ndata: x\n\n"), dst)
		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("delta"))
		Expect(ev.ID).To(Equal("7"))
	})

	It("joins multi-line data", func() {
		r := NewTeeReader(strings.NewReader("data: a\ndata: b\n\n"), dst)
		Expect(collect(r)).To(Equal([]string{"a\nb"}))
	})

	It("skips comments and keep-alives but forwards them", func() {
		src := "\n: ping\n\ndata: {\"choices\":[]}\n\ndata: [DONE]\n\n"
		r := NewTeeReader(strings.NewReader(src), dst)
		Expect(collect(r)).To(Equal([]string{`{"choices":[]}`, "[DONE]"}))
		Expect(dst.String()).To(Equal(src))
	})

	It("accepts data without a space after the colon", func() {
		r := NewReader(strings.NewReader("data:tight\n\n"))
		Expect(collect(r)).To(Equal([]string{"tight"}))
	})

	It("yields a trailing event without a blank line", func() {
		r := NewReader(strings.NewReader("data: last"))
		Expect(collect(r)).To(Equal([]string{"last"}))
	})

	It("returns nothing for empty input", func() {
		Expect(collect(NewReader(strings.NewReader("")))).To(BeEmpty())
	})
})

var _ = Describe("Writer", func() {
	It("frames data events that the reader reads back", func() {
		var buf bytes.Buffer
		Expect(WriteData(&buf, "line one\nline two")).To(Succeed())
		Expect(WriteJSON(&buf, map[string]int{"n": 1})).To(Succeed())
		Expect(WriteDone(&buf)).To(Succeed())

		Expect(buf.String()).To(HavePrefix("data: line one\ndata: line two\n\n"))
		Expect(collect(NewReader(&buf))).To(Equal([]string{"line one\nline two", `{"n":1}`, DoneData}))
	})
})
