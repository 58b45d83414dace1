package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/gateway"
	"github.com/gruhabuddy/gruha/pkg/llm"
	"github.com/gruhabuddy/gruha/pkg/prompt"
)

var _ = Describe("Client", func() {
	var (
		upstream *httptest.Server
		received map[string]any
		header   http.Header
		calls    atomic.Int32
		status   int
		reply    string
	)

	BeforeEach(func() {
		received = nil
		calls.Store(0)
		status = http.StatusOK
		reply = `{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`

		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			header = r.Header.Clone()
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
	})

	AfterEach(func() {
		upstream.Close()
	})

	newClient := func(key string) *gateway.Client {
		c, err := gateway.New(gateway.Config{
			Endpoint:    upstream.URL,
			APIKey:      key,
			Temperature: gateway.DefaultTemperature,
		}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("rejects unknown providers", func() {
		_, err := gateway.New(gateway.Config{ProviderType: "smoke-signals"}, zap.NewNop())
		Expect(err).To(HaveOccurred())
	})

	It("defaults the model", func() {
		Expect(newClient("k").Model()).To(Equal(gateway.DefaultModel))
	})

	It("sends the system and user prompts with bearer auth", func() {
		resp, err := newClient("secret").Complete(context.Background(), prompt.Pair{System: "S", User: "U"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.OK()).To(BeTrue())

		Expect(header.Get("Authorization")).To(Equal("Bearer secret"))
		Expect(header.Get("Content-Type")).To(Equal("application/json"))
		Expect(received["model"]).To(Equal(gateway.DefaultModel))
		Expect(received["temperature"]).To(BeNumerically("==", 0.3))
		Expect(received["messages"]).To(Equal([]any{
			map[string]any{"role": "system", "content": "S"},
			map[string]any{"role": "user", "content": "U"},
		}))
	})

	It("returns non-2xx statuses without error and without retrying", func() {
		status = http.StatusTooManyRequests
		reply = `{"error":"slow down"}`

		resp, err := newClient("k").Complete(context.Background(), prompt.Pair{})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusTooManyRequests))
		Expect(string(resp.Body)).To(Equal(`{"error":"slow down"}`))
		Expect(calls.Load()).To(BeEquivalentTo(1))
	})

	It("fails without a credential and never calls upstream", func() {
		_, err := newClient("").Complete(context.Background(), prompt.Pair{})
		Expect(err).To(MatchError(gateway.ErrMissingCredential))
		Expect(calls.Load()).To(BeZero())
	})

	It("does not need a credential for ollama", func() {
		reply = `{"model":"llama3.2","message":{"role":"assistant","content":"hi"},"done":true}`
		c, err := gateway.New(gateway.Config{Endpoint: upstream.URL, ProviderType: "ollama", Model: "llama3.2"}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		resp, err := c.Complete(context.Background(), prompt.Pair{System: "S", User: "U"})
		Expect(err).NotTo(HaveOccurred())
		Expect(header.Get("Authorization")).To(BeEmpty())

		content, err := c.Content(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(content.Message.GetText()).To(Equal("hi"))
	})

	It("reports transport failures", func() {
		c, err := gateway.New(gateway.Config{Endpoint: "http://127.0.0.1:1", APIKey: "k"}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		_, err = c.Complete(context.Background(), prompt.Pair{})
		Expect(err).To(HaveOccurred())
	})

	It("honours a configured timeout", func() {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer slow.Close()

		c, err := gateway.New(gateway.Config{Endpoint: slow.URL, APIKey: "k", Timeout: 20 * time.Millisecond}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		_, err = c.Complete(context.Background(), prompt.Pair{})
		Expect(err).To(HaveOccurred())
	})

	Describe("Content", func() {
		It("extracts the first choice", func() {
			resp, err := newClient("k").Complete(context.Background(), prompt.Pair{})
			Expect(err).NotTo(HaveOccurred())
			content, err := newClient("k").Content(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(content.Message.GetText()).To(Equal(`{"ok":true}`))
		})

		It("fails on a body that is not JSON", func() {
			_, err := newClient("k").Content([]byte("<html>"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Stream", func() {
		It("requests a stream", func() {
			reply = "data: [DONE]\n\n"
			resp, err := newClient("k").Stream(context.Background(), []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(received["stream"]).To(BeTrue())
			Expect(header.Get("Accept")).To(Equal("text/event-stream"))
		})
	})
})
