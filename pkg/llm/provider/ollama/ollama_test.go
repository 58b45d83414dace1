package ollama_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gruhabuddy/gruha/pkg/llm"
	"github.com/gruhabuddy/gruha/pkg/llm/provider"
	"github.com/gruhabuddy/gruha/pkg/llm/provider/ollama"
)

var _ = Describe("Ollama Provider", func() {
	var p provider.Provider

	BeforeEach(func() {
		p = ollama.New()
	})

	It("does not require a credential", func() {
		Expect(p.Name()).To(Equal("ollama"))
		Expect(p.RequiresAPIKey()).To(BeFalse())
		Expect(p.StreamFraming()).To(Equal(provider.FramingNDJSON))
	})

	Describe("BuildRequest", func() {
		It("puts temperature in options and disables streaming explicitly", func() {
			temp := 0.3
			body, err := p.BuildRequest(llm.NewPromptRequest("llama3.2", "sys", "usr", &temp))
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded["stream"]).To(BeFalse())
			Expect(decoded["options"]).To(Equal(map[string]any{"temperature": 0.3}))
			Expect(decoded["messages"]).To(HaveLen(2))
		})
	})

	Describe("ParseResponse", func() {
		It("reads message content and eval counters", func() {
			resp, err := p.ParseResponse([]byte(`{
				"model": "llama3.2",
				"created_at": "2024-01-01T00:00:00Z",
				"message": {"role": "assistant", "content": "{\"a\":1}"},
				"done": true,
				"prompt_eval_count": 7,
				"eval_count": 3
			}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message.GetText()).To(Equal(`{"a":1}`))
			Expect(resp.StopReason).To(Equal("stop"))
			Expect(resp.Usage.TotalTokens).To(Equal(10))
		})
	})

	Describe("ParseStreamChunk", func() {
		It("skips blank lines", func() {
			chunk, err := p.ParseStreamChunk([]byte("  "))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk).To(BeNil())
		})

		It("reads a partial message", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"Na"},"done":false}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Message.GetText()).To(Equal("Na"))
			Expect(chunk.Done).To(BeFalse())
		})

		It("carries usage on the final chunk", func() {
			chunk, err := p.ParseStreamChunk([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop","eval_count":4}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(chunk.Done).To(BeTrue())
			Expect(chunk.Usage.CompletionTokens).To(Equal(4))
		})
	})
})
