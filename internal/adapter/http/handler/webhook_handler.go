package handler

import (
	"errors"
	"io"
	"net/http"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives provider pushes.
type WebhookHandler struct {
	webhookSvc ports.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc ports.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// Receive handles POST /webhooks/:provider. The raw body is passed through
// untouched so the provider signature can be checked over the exact bytes.
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider, ok := domain.ParseProviderName(c.Param("provider"))
	if !ok {
		response.Error(c, apperror.ErrNotFound("Provider"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.ErrPayloadTooLarge())
			return
		}
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	ack, err := h.webhookSvc.Ingest(c.Request.Context(), provider, c.Request.Header, body)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ack)
}
