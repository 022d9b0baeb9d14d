package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/formhub/internal/backend"
	"github.com/geocoder89/formhub/internal/intake"
	"github.com/geocoder89/formhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Submission outcomes, as counted in formhub_submissions_total.
const (
	OutcomeSaved        = "saved"
	OutcomeTooLarge     = "too_large"
	OutcomeMalformed    = "malformed"
	OutcomeInvalid      = "invalid"
	OutcomeBackendError = "backend_error"
	OutcomeReadError    = "read_error"
)

type SubmitResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type SubmitHandler struct {
	backend  backend.Backend
	maxBytes int64
	log      *slog.Logger
	prom     *observability.Prom
}

// NewSubmitHandler wires the intake pipeline to b. prom may be nil.
func NewSubmitHandler(b backend.Backend, maxBytes int64, log *slog.Logger, prom *observability.Prom) *SubmitHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SubmitHandler{backend: b, maxBytes: maxBytes, log: log, prom: prom}
}

func (h *SubmitHandler) Submit(ctx *gin.Context) {
	raw, err := intake.ReadBody(ctx.Writer, ctx.Request, h.maxBytes)

	if err != nil {
		if errors.Is(err, intake.ErrPayloadTooLarge) {
			h.prom.Submission(OutcomeTooLarge)
			RespondTooLarge(ctx)
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "read body failed", "err", err)
		h.prom.Submission(OutcomeReadError)
		RespondInternal(ctx, "internal_error", "Could not read request body")
		return
	}

	payload, err := intake.Parse(raw, ctx.GetHeader("Content-Type"))

	if err != nil {
		h.prom.Submission(OutcomeMalformed)
		RespondBadRequest(ctx, "malformed_payload", "Invalid JSON", nil)
		return
	}

	cred, err := intake.Validate(payload)

	if err != nil {
		h.prom.Submission(OutcomeInvalid)

		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			RespondBadRequest(ctx, "validation_failed", verr.Error(), gin.H{"fields": verr.Fields})
			return
		}
		RespondBadRequest(ctx, "validation_failed", err.Error(), nil)
		return
	}

	receipt, err := h.backend.Save(ctx.Request.Context(), cred)

	if err != nil {
		be := backend.AsError(err, "backend/unknown")

		h.log.WarnContext(ctx.Request.Context(), "save failed", "code", be.Code, "err", err)
		h.prom.Submission(OutcomeBackendError)
		// code and message are echoed so the client can tell causes apart
		RespondInternal(ctx, be.Code, be.Error())
		return
	}

	h.prom.Submission(OutcomeSaved)
	ctx.JSON(http.StatusOK, SubmitResponse{Message: receipt.Message, ID: receipt.ID})
}
