package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chainrails/intent-service/internal/app"
	"github.com/chainrails/intent-service/internal/domain"
	"github.com/chainrails/intent-service/internal/store"
	"github.com/chainrails/intent-service/pkg/chainrailsclient"
)

type gatewayStub struct {
	chains []chainrailsclient.Chain
	quote  *chainrailsclient.Quote
	intent *chainrailsclient.Intent
	err    error
}

func (g *gatewayStub) GetChains(ctx context.Context) ([]chainrailsclient.Chain, error) {
	return g.chains, g.err
}

func (g *gatewayStub) GetQuote(ctx context.Context, sourceChain, destinationChain, token, amount string) (*chainrailsclient.Quote, error) {
	return g.quote, g.err
}

func (g *gatewayStub) CreateIntent(ctx context.Context, req chainrailsclient.CreateIntentRequest) (*chainrailsclient.Intent, error) {
	return g.intent, g.err
}

func (g *gatewayStub) GetIntent(ctx context.Context, intentID int64) (*chainrailsclient.Intent, error) {
	return g.intent, g.err
}

func newIntentTestRouter(t *testing.T, gateway *gatewayStub) (http.Handler, *app.Service) {
	t.Helper()
	eventLog := store.NewMemoryEventLog()
	verifier := app.NewVerifier(testWebhookSecret, testLogger())
	service := app.NewService(eventLog, verifier, nil, testLogger())

	webhooks := NewWebhookHandler(service, testLogger())
	intents := NewIntentHandlers(gateway, service, testLogger())
	return Routes(webhooks, intents, nil), service
}

func TestCreateIntentHandler_RegistersCorrelationAddress(t *testing.T) {
	gateway := &gatewayStub{
		intent: &chainrailsclient.Intent{
			ID:            42,
			IntentAddress: "0xdeposit",
			IntentStatus:  domain.IntentStatusPending,
			ExpiresAt:     time.Now().Add(time.Hour),
		},
	}
	router, service := newIntentTestRouter(t, gateway)

	payload := `{"source_chain":"ethereum","destination_chain":"base","token":"USDC","amount":"100","recipient":"0xrecipient"}`
	req := httptest.NewRequest(http.MethodPost, "/api/intents", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The deposit address must be registered so the event log exists before
	// the first webhook arrives.
	events, err := service.Events(context.Background(), "0xdeposit")
	if err != nil {
		t.Fatalf("Events returned error: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected an initialized empty event log, got %v", events)
	}

	tracked, err := service.Intent(context.Background(), "0xdeposit")
	if err != nil {
		t.Fatalf("Intent returned error: %v", err)
	}
	if tracked.ID != 42 || tracked.Status != domain.IntentStatusPending {
		t.Fatalf("unexpected tracked intent: %+v", tracked)
	}
}

func TestCreateIntentHandler_VendorFailureReturns502(t *testing.T) {
	gateway := &gatewayStub{err: errors.New("vendor down")}
	router, _ := newIntentTestRouter(t, gateway)

	req := httptest.NewRequest(http.MethodPost, "/api/intents", bytes.NewBufferString(`{"source_chain":"ethereum"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestListIntentEventsHandler_UnknownAddressReturnsEmptyList(t *testing.T) {
	router, _ := newIntentTestRouter(t, &gatewayStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/intents/0xunknown/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown address, got %d", rec.Code)
	}

	var events []domain.WebhookEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("expected a JSON array, got %q: %v", rec.Body.String(), err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(events))
	}
}

func TestGetQuoteHandler_RequiresRouteParams(t *testing.T) {
	router, _ := newIntentTestRouter(t, &gatewayStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?source_chain=ethereum", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quote params, got %d", rec.Code)
	}
}

func TestListChainsHandler_ProxiesVendorResponse(t *testing.T) {
	gateway := &gatewayStub{
		chains: []chainrailsclient.Chain{
			{ID: 1, Name: "Ethereum", Symbol: "ETH"},
			{ID: 8453, Name: "Base", Symbol: "ETH"},
		},
	}
	router, _ := newIntentTestRouter(t, gateway)

	req := httptest.NewRequest(http.MethodGet, "/api/chains", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var chains []chainrailsclient.Chain
	if err := json.Unmarshal(rec.Body.Bytes(), &chains); err != nil {
		t.Fatalf("failed to decode chain list: %v", err)
	}
	if len(chains) != 2 || chains[1].Name != "Base" {
		t.Fatalf("unexpected chain list: %+v", chains)
	}
}

func TestGetIntentHandler_NonNumericIDReturns400(t *testing.T) {
	router, _ := newIntentTestRouter(t, &gatewayStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/intents/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric intent id, got %d", rec.Code)
	}
}
