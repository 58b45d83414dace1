package dispatcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/eventstream"
	"github.com/gruhabuddy/gruha/pkg/gateway"
)

var _ = Describe("Dispatcher", func() {
	var (
		upstream *fakeGateway
		pub      *recordingPublisher
		d        *Dispatcher
	)

	BeforeEach(func() {
		upstream = newFakeGateway()
		pub = &recordingPublisher{}
		d = newTestDispatcher(gateway.Config{
			Endpoint:    upstream.server.URL,
			APIKey:      "test-key",
			Temperature: gateway.DefaultTemperature,
		}, pub)
	})

	AfterEach(func() {
		d.Close()
		upstream.Close()
	})

	// Every JSON reply carries exactly one of result or error.
	expectEnvelope := func(body map[string]any) {
		_, hasResult := body["result"]
		_, hasError := body["error"]
		Expect(hasResult != hasError).To(BeTrue(), "body: %v", body)
		Expect(body).To(HaveLen(1))
	}

	Describe("preflight", func() {
		It("answers OPTIONS with an empty 200 and CORS headers", func() {
			req := httptest.NewRequest(http.MethodOptions, "/", nil)
			resp, body := send(d, req)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(BeNil())
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(resp.Header.Get("Access-Control-Allow-Headers")).To(ContainSubstring("content-type"))
			Expect(upstream.Calls()).To(BeZero())
		})
	})

	Describe("request validation", func() {
		It("rejects non-POST methods", func() {
			resp, body := send(d, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
			Expect(body["error"]).To(Equal(MsgMethodNotAllowed))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})

		It("rejects a body that is not a JSON object", func() {
			resp, body := post(d, "/", "not json")

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal(MsgInvalidBody))
			Expect(upstream.Calls()).To(BeZero())
		})

		It("rejects an unknown action without calling the gateway", func() {
			resp, body := post(d, "/", `{"action":"paint-ceiling","data":{}}`)

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal(MsgUnknownAction))
			expectEnvelope(body)
			Expect(upstream.Calls()).To(BeZero())
		})

		It("treats a non-string action as unknown", func() {
			resp, body := post(d, "/", `{"action":42}`)

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal(MsgUnknownAction))
		})

		It("rejects data that is not an object", func() {
			resp, body := post(d, "/", `{"action":"analyze-room","data":[1,2]}`)

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal(MsgInvalidData))
			Expect(upstream.Calls()).To(BeZero())
		})
	})

	Describe("successful dispatch", func() {
		It("returns the fenced JSON object as the result", func() {
			upstream.answer("Here you go:\n```json\n{\"roomAnalysis\":{\"estimatedArea\":\"120 sq ft\"}}\n```")

			resp, body := post(d, "/", `{"action":"analyze-room","data":{"roomType":"Kitchen"}}`)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			expectEnvelope(body)
			Expect(body["result"]).To(Equal(map[string]any{
				"roomAnalysis": map[string]any{"estimatedArea": "120 sq ft"},
			}))
		})

		It("sends the rendered prompts with the configured model and temperature", func() {
			upstream.answer(`{}`)

			post(d, "/room-design-ai", `{"action":"analyze-room","data":{"roomType":"Kitchen","dimensions":{"length":14}}}`)

			sent := upstream.LastBody()
			Expect(sent["model"]).To(Equal(gateway.DefaultModel))
			Expect(sent["temperature"]).To(BeNumerically("~", gateway.DefaultTemperature))

			messages := sent["messages"].([]any)
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].(map[string]any)["role"]).To(Equal("system"))
			user := messages[1].(map[string]any)
			Expect(user["role"]).To(Equal("user"))
			Expect(user["content"]).To(ContainSubstring("Room Type: Kitchen"))
			Expect(user["content"]).To(ContainSubstring("Dimensions: 14ft × 10ft × 9ft"))
		})

		It("fills defaults for missing fields", func() {
			upstream.answer(`{}`)

			post(d, "/", `{"action":"theme-recommendations"}`)

			messages := upstream.LastBody()["messages"].([]any)
			Expect(messages[1].(map[string]any)["content"]).To(ContainSubstring(`"Budget Friendly Home" theme`))
		})

		It("interpolates object values instead of rejecting them", func() {
			upstream.answer(`{}`)

			resp, body := post(d, "/", `{"action":"analyze-room","data":{"features":{"balcony":true}}}`)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			expectEnvelope(body)
			messages := upstream.LastBody()["messages"].([]any)
			Expect(messages[1].(map[string]any)["content"]).To(ContainSubstring(`Additional Features: {"balcony":true}`))
		})

		It("wraps unparseable output as rawResponse", func() {
			upstream.answer("Sorry, I cannot help with that.")

			resp, body := post(d, "/", `{"action":"color-suggestions","data":{"mood":"Energetic"}}`)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["result"]).To(Equal(map[string]any{
				"rawResponse": "Sorry, I cannot help with that.",
			}))
		})

		It("returns empty content as rawResponse", func() {
			upstream.reply(http.StatusOK, "application/json", `{"choices":[]}`)

			resp, body := post(d, "/", `{"action":"budget-optimize","data":{"totalBudget":200000}}`)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["result"]).To(Equal(map[string]any{"rawResponse": ""}))
		})

		It("publishes a design event once the pool drains", func() {
			upstream.answer(`{"colorPalettes":[]}`)

			post(d, "/", `{"action":"color-suggestions"}`)
			d.Close()

			events := pub.Events()
			Expect(events).To(HaveLen(1))
			ev := events[0]
			Expect(ev.EventType).To(Equal(eventstream.EventTypeDesignCompleted))
			Expect(ev.Request.Action).To(Equal("color-suggestions"))
			Expect(ev.Request.HTTPStatus).To(Equal(http.StatusOK))
			Expect(ev.Result.Outcome).To(Equal(eventstream.OutcomeParsed))
			Expect(ev.Result.Usage).NotTo(BeNil())
			Expect(ev.Result.Usage.TotalTokens).To(Equal(15))
		})
	})

	Describe("upstream failures", func() {
		DescribeTable("maps the gateway status",
			func(upstreamStatus, wantStatus int, wantMessage string) {
				upstream.reply(upstreamStatus, "application/json", `{"error":{"message":"internal detail: quota for org-123"}}`)

				resp, body := post(d, "/", `{"action":"analyze-room","data":{}}`)

				Expect(resp.StatusCode).To(Equal(wantStatus))
				Expect(body["error"]).To(Equal(wantMessage))
				expectEnvelope(body)
				Expect(body["error"]).NotTo(ContainSubstring("org-123"))
				Expect(upstream.Calls()).To(Equal(1))
			},
			Entry("rate limited", http.StatusTooManyRequests, http.StatusTooManyRequests, MsgRateLimited),
			Entry("credits exhausted", http.StatusPaymentRequired, http.StatusPaymentRequired, MsgCreditsExhausted),
			Entry("server error", http.StatusInternalServerError, http.StatusInternalServerError, MsgUpstreamUnavailable),
			Entry("bad request", http.StatusBadRequest, http.StatusInternalServerError, MsgUpstreamUnavailable),
		)

		It("passes rate limiting through for every action", func() {
			upstream.reply(http.StatusTooManyRequests, "application/json", `{"error":"slow down"}`)

			for _, action := range design.Actions() {
				resp, body := post(d, "/", `{"action":"`+action.String()+`","data":{}}`)

				Expect(resp.StatusCode).To(Equal(http.StatusTooManyRequests), action.String())
				Expect(body).To(Equal(map[string]any{"error": MsgRateLimited}), action.String())
			}
			Expect(upstream.Calls()).To(Equal(len(design.Actions())))
		})

		It("reports an unreachable gateway as an internal error with the cause", func() {
			closed := httptest.NewServer(http.NotFoundHandler())
			closedURL := closed.URL
			closed.Close()

			d.Close()
			d = newTestDispatcher(gateway.Config{Endpoint: closedURL, APIKey: "test-key"}, pub)

			resp, body := post(d, "/", `{"action":"color-suggestions","data":{"mood":"Calm"}}`)

			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			expectEnvelope(body)
			Expect(body["error"]).To(ContainSubstring("gateway request failed"))
			Expect(body["error"]).To(ContainSubstring(closedURL))
		})

		It("reports a malformed success body as an internal error", func() {
			upstream.reply(http.StatusOK, "application/json", `<html>oops</html>`)

			resp, body := post(d, "/", `{"action":"analyze-room"}`)

			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(body["error"]).To(ContainSubstring("decoding gateway response"))
		})
	})

	Describe("missing credential", func() {
		BeforeEach(func() {
			d.Close()
			d = newTestDispatcher(gateway.Config{Endpoint: upstream.server.URL}, pub)
		})

		It("fails valid requests with 500 without calling upstream", func() {
			resp, body := post(d, "/", `{"action":"analyze-room"}`)

			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(body["error"]).To(Equal(gateway.ErrMissingCredential.Error()))
			Expect(upstream.Calls()).To(BeZero())
		})

		It("still rejects unknown actions first", func() {
			resp, body := post(d, "/", `{"action":"nope"}`)

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal(MsgUnknownAction))
		})
	})

	Describe("Dispatch", func() {
		It("runs the pipeline without HTTP", func() {
			upstream.answer("```\n{\"ok\":true}\n```")

			out := d.Dispatch(context.Background(), design.Request{Action: "budget-optimize"})

			Expect(out.Status).To(Equal(http.StatusOK))
			Expect(out.Envelope.IsError()).To(BeFalse())
			Expect(strings.TrimSpace(string(out.Envelope.Result()))).To(Equal(`{"ok":true}`))
		})
	})
})
