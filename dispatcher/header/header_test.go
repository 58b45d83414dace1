package header

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const allowHeaders = "authorization, x-client-info, apikey, content-type, x-supabase-client-platform, x-supabase-client-platform-version, x-supabase-client-runtime, x-supabase-client-runtime-version"

var _ = Describe("Handler", func() {
	var (
		app     *fiber.App
		hh      *Handler
		reached bool
	)

	BeforeEach(func() {
		app = fiber.New()
		hh = NewHandler()
		reached = false

		app.Use(hh.Middleware())
		app.Post("/", func(c *fiber.Ctx) error {
			reached = true
			return c.SendString("ok")
		})
	})

	AfterEach(func() {
		app.Shutdown()
	})

	It("exposes the permissive header set", func() {
		Expect(hh.Headers()).To(Equal(map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Headers": allowHeaders,
		}))
	})

	It("returns a copy of the headers", func() {
		hh.Headers()["Access-Control-Allow-Origin"] = "https://evil.example"
		Expect(hh.Headers()["Access-Control-Allow-Origin"]).To(Equal("*"))
	})

	It("answers preflight requests with an empty 200", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/", nil))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(BeEmpty())
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(resp.Header.Get("Access-Control-Allow-Headers")).To(Equal(allowHeaders))
		Expect(reached).To(BeFalse())
	})

	It("decorates regular responses", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(reached).To(BeTrue())
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("decorates unmatched routes", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})
