package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageLoader returns the bytes of the static home page.
type PageLoader interface {
	Load() ([]byte, error)
}

type HomeHandler struct {
	pages PageLoader
	log   *slog.Logger
}

func NewHomeHandler(pages PageLoader, log *slog.Logger) *HomeHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HomeHandler{pages: pages, log: log}
}

func (h *HomeHandler) Home(ctx *gin.Context) {
	body, err := h.pages.Load()

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "home page load failed", "err", err)
		RespondText(ctx, http.StatusInternalServerError, "Error loading page")
		return
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
