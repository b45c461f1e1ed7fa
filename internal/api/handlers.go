/**
 * @description
 * This file contains the HTTP handler for processing incoming webhooks from
 * Chainrails. It acts as the entry point for all real-time intent lifecycle
 * notifications from the vendor.
 *
 * Key features:
 * - Buffers the raw request body so the signature is checked against the
 *   exact bytes the sender signed, never a re-encoded copy.
 * - Maps verification failures to 401 so Chainrails redelivers on its own
 *   backoff schedule; malformed-but-authentic payloads map to 400.
 * - Assigns a request id to every delivery for log correlation.
 *
 * @dependencies
 * - net/http, io, errors: Standard Go libraries.
 * - github.com/google/uuid: For per-delivery request ids.
 * - internal/app: The verification and correlation service.
 */
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chainrails/intent-service/internal/app"
)

const (
	signatureHeader = "X-Chainrails-Signature"
	timestampHeader = "X-Chainrails-Timestamp"
)

// WebhookService is the slice of the application service the webhook
// handler depends on.
type WebhookService interface {
	VerifyAndRecord(ctx context.Context, body []byte, signatureHeader, timestampHeader string) (app.VerifyResult, error)
}

// WebhookHandler processes incoming webhooks from Chainrails.
type WebhookHandler struct {
	service WebhookService
	logger  *slog.Logger
}

// NewWebhookHandler creates a new handler for the webhook endpoint.
func NewWebhookHandler(service WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, logger: logger}
}

// ServeHTTP implements the http.Handler interface.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "request_id", requestID, "error", err)
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.VerifyAndRecord(r.Context(), body,
		r.Header.Get(signatureHeader), r.Header.Get(timestampHeader))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidTimestamp),
			errors.Is(err, app.ErrStaleTimestamp),
			errors.Is(err, app.ErrSignatureMismatch):
			h.logger.Warn("webhook rejected", "request_id", requestID, "remote_addr", r.RemoteAddr, "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, app.ErrMalformedPayload):
			h.logger.Warn("webhook payload malformed", "request_id", requestID, "error", err)
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		default:
			h.logger.Error("webhook processing failed", "request_id", requestID, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("webhook processed",
		"request_id", requestID,
		"event_id", result.EventID,
		"event_type", result.EventType,
		"correlated", result.Correlated,
		"duration", time.Since(start))

	writeJSON(w, http.StatusOK, result)
}
