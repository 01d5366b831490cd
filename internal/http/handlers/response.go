// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities used across all endpoints. Every
// failure is the same JSON envelope so clients can branch on one shape:
//
//	HTTP/1.1 403 Forbidden
//	{
//	  "error": "You are not a member of this server",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
//
// Validation failures additionally carry a "details" array naming each
// offending field. Server-side (5xx) failures are logged with request
// context and never echo internals to the caller.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Error is a human-readable description, safe to show to users.
	Error string `json:"error" example:"Invalid guild ID format"`
	// Details carries structured validation failures when present.
	Details []FieldError `json:"details,omitempty"`
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// FieldError describes one rejected body field.
type FieldError struct {
	Field   string `json:"field" example:"defaultVolume"`
	Message string `json:"message" example:"must be between 0 and 100"`
}

// fail aborts the request with the standard error envelope. Server errors
// (>= 500) are logged with the request-scoped logger; the logged error text
// stays out of the response body.
func fail(c *gin.Context, status int, msg string) {
	failDetails(c, status, msg, nil)
}

// failDetails is fail with structured validation details attached.
func failDetails(c *gin.Context, status int, msg string, details []FieldError) {
	resp := ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for use in router fallbacks.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// ok writes a success JSON response with the given status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
