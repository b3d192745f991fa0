package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	businessflow "github.com/urlite/urlite/business_flow"
	"github.com/urlite/urlite/utils"
)

// RedirectHandlerInterface defines the contract for the public redirect endpoint
type RedirectHandlerInterface interface {
	Visit(c fiber.Ctx) error
}

type RedirectHandler struct {
	flow businessflow.URLLifecycleFlow
}

func NewRedirectHandler(flow businessflow.URLLifecycleFlow) RedirectHandlerInterface {
	return &RedirectHandler{flow: flow}
}

// Visit resolves a short code and redirects to the original URL
// @Summary Visit Short URL
// @Tags URLs
// @Param shortCode path string true "Short code"
// @Success 302 {string} string "Redirect"
// @Failure 404 {object} any
// @Router /{shortCode} [get]
func (h *RedirectHandler) Visit(c fiber.Ctx) error {
	shortCode := c.Params("shortCode")
	if shortCode == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid short link")
	}

	link, err := h.flow.Resolve(h.createRequestContext(c, "/"+shortCode), shortCode)
	if err != nil {
		if businessflow.IsURLNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("not found")
		}
		log.Println("Visit short link failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
	c.Redirect().Status(fiber.StatusFound).To(link)
	return nil
}

func (h *RedirectHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
