package handlers

import (
	"net/http"

	"github.com/geocoder89/formhub/internal/http/middlewares"
	"github.com/geocoder89/formhub/internal/intake"
	"github.com/gin-gonic/gin"
)

const plainText = "text/plain; charset=utf-8"

type APIError struct {
	Message   string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader(middlewares.RequestIDHeader)
}

// RespondError answers in the family of the request: a JSON envelope when the
// client sent JSON, the bare message as text otherwise.
func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	if !intake.IsJSON(ctx.GetHeader("Content-Type")) {
		RespondText(ctx, status, message)
		return
	}

	ctx.JSON(status, APIError{
		Message:   message,
		Code:      code,
		RequestID: requestIDFrom(ctx),
		Details:   details,
	})
}

func RespondText(ctx *gin.Context, status int, message string) {
	ctx.Data(status, plainText, []byte(message))
}

func RespondBadRequest(ctx *gin.Context, code, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, code, message, details)
}

func RespondTooLarge(ctx *gin.Context) {
	RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", "Payload too large", nil)
}

func RespondInternal(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusInternalServerError, code, message, nil)
}

// NotFound is the fallback for every unrouted method and path.
func NotFound(ctx *gin.Context) {
	RespondText(ctx, http.StatusNotFound, "Not found")
}
