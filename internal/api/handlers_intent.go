/**
 * @description
 * This file contains the HTTP handlers for the orchestration API: chain
 * listing, quote retrieval, intent creation, and intent status. These
 * endpoints are thin pass-throughs to the Chainrails API; the one piece of
 * local behavior is registering a freshly created intent's deposit address
 * so webhook events can be correlated against it.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: For URL parameters.
 * - internal/app, internal/domain: Service logic and models.
 * - pkg/chainrailsclient: The vendor API client.
 */
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chainrails/intent-service/internal/domain"
	"github.com/chainrails/intent-service/pkg/chainrailsclient"
)

// ChainrailsGateway is the slice of the vendor client the handlers use.
type ChainrailsGateway interface {
	GetChains(ctx context.Context) ([]chainrailsclient.Chain, error)
	GetQuote(ctx context.Context, sourceChain, destinationChain, token, amount string) (*chainrailsclient.Quote, error)
	CreateIntent(ctx context.Context, req chainrailsclient.CreateIntentRequest) (*chainrailsclient.Intent, error)
	GetIntent(ctx context.Context, intentID int64) (*chainrailsclient.Intent, error)
}

// IntentService is the slice of the application service the handlers use.
type IntentService interface {
	RecordIntentCreated(ctx context.Context, intent domain.TrackedIntent) error
	Events(ctx context.Context, address string) ([]domain.WebhookEvent, error)
}

// IntentHandlers holds the dependencies for the orchestration endpoints.
type IntentHandlers struct {
	gateway ChainrailsGateway
	service IntentService
	logger  *slog.Logger
}

// NewIntentHandlers creates the orchestration handlers.
func NewIntentHandlers(gateway ChainrailsGateway, service IntentService, logger *slog.Logger) *IntentHandlers {
	return &IntentHandlers{gateway: gateway, service: service, logger: logger}
}

// ListChainsHandler proxies GET /chains to Chainrails.
func (h *IntentHandlers) ListChainsHandler(w http.ResponseWriter, r *http.Request) {
	chains, err := h.gateway.GetChains(r.Context())
	if err != nil {
		h.logger.Error("failed to list chains", "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch supported chains")
		return
	}
	writeJSON(w, http.StatusOK, chains)
}

// GetQuoteHandler proxies GET /quotes to Chainrails.
func (h *IntentHandlers) GetQuoteHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	source := query.Get("source_chain")
	destination := query.Get("destination_chain")
	token := query.Get("token")
	amount := query.Get("amount")
	if source == "" || destination == "" || token == "" || amount == "" {
		respondError(w, http.StatusBadRequest, "source_chain, destination_chain, token and amount are required")
		return
	}

	quote, err := h.gateway.GetQuote(r.Context(), source, destination, token, amount)
	if err != nil {
		h.logger.Error("failed to fetch quote", "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch quote")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// CreateIntentHandler creates a vendor intent, then registers its deposit
// address locally so subsequent webhook deliveries can be correlated.
func (h *IntentHandlers) CreateIntentHandler(w http.ResponseWriter, r *http.Request) {
	var req chainrailsclient.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intent, err := h.gateway.CreateIntent(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create intent", "error", err)
		respondError(w, http.StatusBadGateway, "failed to create transfer intent")
		return
	}

	tracked := domain.TrackedIntent{
		ID:        intent.ID,
		Address:   intent.IntentAddress,
		Status:    intent.IntentStatus,
		ExpiresAt: intent.ExpiresAt,
	}
	if err := h.service.RecordIntentCreated(r.Context(), tracked); err != nil {
		h.logger.Error("failed to track created intent",
			"intent_id", intent.ID, "intent_address", intent.IntentAddress, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to track created intent")
		return
	}

	h.logger.Info("intent created",
		"intent_id", intent.ID, "intent_address", intent.IntentAddress)
	writeJSON(w, http.StatusCreated, intent)
}

// GetIntentHandler proxies GET /intents/{id} to Chainrails.
func (h *IntentHandlers) GetIntentHandler(w http.ResponseWriter, r *http.Request) {
	intentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "intent id must be numeric")
		return
	}

	intent, err := h.gateway.GetIntent(r.Context(), intentID)
	if err != nil {
		h.logger.Error("failed to fetch intent", "intent_id", intentID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch intent")
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

// ListIntentEventsHandler returns the recorded webhook event log for a
// deposit address. Unknown addresses yield an empty list, not an error.
func (h *IntentHandlers) ListIntentEventsHandler(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	events, err := h.service.Events(r.Context(), address)
	if err != nil {
		h.logger.Error("failed to read intent events", "intent_address", address, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read intent events")
		return
	}
	if events == nil {
		events = []domain.WebhookEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// writeJSON is a helper for writing JSON responses.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
