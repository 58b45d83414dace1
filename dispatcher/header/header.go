// Package header holds the response headers every dispatcher reply carries.
//
// Browser clients call the dispatcher cross origin, so each response,
// including errors and preflight replies, exposes the same permissive CORS
// header set.
package header

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// clientHeaders are the request headers browser clients are allowed to send.
var clientHeaders = []string{
	"authorization",
	"x-client-info",
	"apikey",
	"content-type",
	"x-supabase-client-platform",
	"x-supabase-client-platform-version",
	"x-supabase-client-runtime",
	"x-supabase-client-runtime-version",
}

// Handler applies the CORS header set.
type Handler struct {
	headers map[string]string
}

// NewHandler creates a Handler allowing any origin.
func NewHandler() *Handler {
	return &Handler{
		headers: map[string]string{
			fiber.HeaderAccessControlAllowOrigin:  "*",
			fiber.HeaderAccessControlAllowHeaders: strings.Join(clientHeaders, ", "),
		},
	}
}

// Headers returns a copy of the header set.
func (h *Handler) Headers() map[string]string {
	out := make(map[string]string, len(h.headers))
	for k, v := range h.headers {
		out[k] = v
	}
	return out
}

// Apply sets the header set on the response.
func (h *Handler) Apply(c *fiber.Ctx) {
	for k, v := range h.headers {
		c.Set(k, v)
	}
}

// Middleware applies the header set to every response and answers
// preflight requests with an empty 200 without reaching any route.
func (h *Handler) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		h.Apply(c)
		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}
