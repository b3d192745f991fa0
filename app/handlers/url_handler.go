package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/urlite/urlite/app/dto"
	businessflow "github.com/urlite/urlite/business_flow"
	"github.com/urlite/urlite/utils"
)

// URLHandlerInterface defines the contract for short URL management handlers
type URLHandlerInterface interface {
	Shorten(c fiber.Ctx) error
	MyURLs(c fiber.Ctx) error
	GetURL(c fiber.Ctx) error
	UpdateURL(c fiber.Ctx) error
	DeleteURL(c fiber.Ctx) error
}

// URLHandler handles short URL management HTTP requests
type URLHandler struct {
	flow      businessflow.URLLifecycleFlow
	validator *validator.Validate
}

// NewURLHandler creates a new URL management handler
func NewURLHandler(flow businessflow.URLLifecycleFlow) *URLHandler {
	return &URLHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *URLHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *URLHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// optionalUserID reads the authenticated user from locals when the
// optional auth middleware resolved a valid token, nil otherwise.
func (h *URLHandler) optionalUserID(c fiber.Ctx) *uint {
	if userID, ok := c.Locals("user_id").(uint); ok && userID != 0 {
		return &userID
	}
	return nil
}

func (h *URLHandler) requiredUserID(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok && userID != 0
}

// Shorten creates a short URL for the given original URL
// @Summary Shorten URL
// @Tags URLs
// @Accept json
// @Produce json
// @Param request body dto.ShortenURLRequest true "URL to shorten"
// @Success 201 {object} dto.APIResponse{data=dto.ShortenURLResponse} "Short URL created"
// @Failure 400 {object} dto.APIResponse "Invalid URL"
// @Failure 503 {object} dto.APIResponse "Short code space exhausted"
// @Router /api/v1/shorten [post]
func (h *URLHandler) Shorten(c fiber.Ctx) error {
	var req dto.ShortenURLRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	userID := h.optionalUserID(c)

	result, err := h.flow.Shorten(h.createRequestContext(c, "/api/v1/shorten"), &req, userID)
	if err != nil {
		if businessflow.IsInvalidURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid URL", "INVALID_URL", nil)
		}
		if businessflow.IsShortCodeSpaceExhausted(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Could not allocate a unique short code", "SHORT_CODE_EXHAUSTED", nil)
		}
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Shorten URL failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to shorten URL", "SHORTEN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, fiber.Map{
		"url": result.URL,
	})
}

// MyURLs lists the authenticated user's active short URLs
// @Summary List My URLs
// @Tags URLs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListURLsResponse} "URLs retrieved"
// @Router /api/v1/my-urls [get]
func (h *URLHandler) MyURLs(c fiber.Ctx) error {
	userID, ok := h.requiredUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.flow.ListForUser(h.createRequestContext(c, "/api/v1/my-urls"), userID)
	if err != nil {
		log.Println("List URLs failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list URLs", "LIST_URLS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"urls":  result.URLs,
		"total": result.Total,
	})
}

// GetURL fetches a single short URL owned by the authenticated user
// @Summary Get URL
// @Tags URLs
// @Produce json
// @Param shortCode path string true "Short code"
// @Success 200 {object} dto.APIResponse{data=dto.GetURLResponse} "URL retrieved"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/urls/{shortCode} [get]
func (h *URLHandler) GetURL(c fiber.Ctx) error {
	shortCode := c.Params("shortCode")
	if shortCode == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "SHORT_CODE_REQUIRED", nil)
	}

	result, err := h.flow.GetByShortCode(h.createRequestContext(c, "/api/v1/urls/"+shortCode), shortCode)
	if err != nil {
		if businessflow.IsURLNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short URL not found", "URL_NOT_FOUND", nil)
		}

		log.Println("Get URL failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch URL", "GET_URL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"url": result.URL,
	})
}

// UpdateURL modifies the original URL or short code of an owned entry
// @Summary Update URL
// @Tags URLs
// @Accept json
// @Produce json
// @Param shortCode path string true "Short code"
// @Param request body dto.UpdateURLRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateURLResponse} "URL updated"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 409 {object} dto.APIResponse "Short code taken"
// @Router /api/v1/urls/{shortCode} [put]
func (h *URLHandler) UpdateURL(c fiber.Ctx) error {
	userID, ok := h.requiredUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	shortCode := c.Params("shortCode")
	if shortCode == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "SHORT_CODE_REQUIRED", nil)
	}

	var req dto.UpdateURLRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.flow.Update(h.createRequestContext(c, "/api/v1/urls/"+shortCode), shortCode, &req, userID)
	if err != nil {
		if businessflow.IsURLNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short URL not found", "URL_NOT_FOUND", nil)
		}
		if businessflow.IsShortCodeTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Short code is already in use", "SHORT_CODE_TAKEN", nil)
		}
		if businessflow.IsInvalidURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid URL", "INVALID_URL", nil)
		}
		if businessflow.IsUpdateFieldsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one field must be provided", "UPDATE_FIELDS_REQUIRED", nil)
		}

		log.Println("Update URL failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update URL", "UPDATE_URL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"url": result.URL,
	})
}

// DeleteURL soft deletes an owned short URL
// @Summary Delete URL
// @Tags URLs
// @Param shortCode path string true "Short code"
// @Success 204 "URL deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/urls/{shortCode} [delete]
func (h *URLHandler) DeleteURL(c fiber.Ctx) error {
	userID, ok := h.requiredUserID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	shortCode := c.Params("shortCode")
	if shortCode == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "SHORT_CODE_REQUIRED", nil)
	}

	if err := h.flow.Delete(h.createRequestContext(c, "/api/v1/urls/"+shortCode), shortCode, userID); err != nil {
		if businessflow.IsURLNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short URL not found", "URL_NOT_FOUND", nil)
		}

		log.Println("Delete URL failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete URL", "DELETE_URL_FAILED", nil)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *URLHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *URLHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
