/**
 * @description
 * Application service for the intent-service. It owns the webhook ingress
 * flow: verify a delivery's authenticity and freshness, correlate it to a
 * tracked intent by deposit address, append it to the event log, and fan it
 * out to the internal message exchange for downstream consumers.
 *
 * Key features:
 * - Verification failures are terminal for a delivery; the vendor retries
 *   on its own backoff schedule, never this service.
 * - Authentic events without a correlation address are accepted but not
 *   recorded ("received but uncorrelated").
 * - Publish failures are logged and never fail the delivery: the event was
 *   already verified and recorded by then.
 *
 * @dependencies
 * - internal/store: The event log behind the correlation operations.
 * - internal/domain: Webhook and intent models.
 */
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chainrails/intent-service/internal/domain"
	"github.com/chainrails/intent-service/internal/store"
)

// ErrMalformedPayload is returned when a delivery passed verification but
// its body cannot be decoded into the expected event envelope.
var ErrMalformedPayload = errors.New("webhook payload malformed")

// IntentEventsExchange is the topic exchange internal events are published to.
const IntentEventsExchange = "intent_events"

// EventPublisher abstracts the message broker so tests can stub it out.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

// VerifyResult describes the outcome of processing one webhook delivery.
type VerifyResult struct {
	Accepted           bool   `json:"accepted"`
	Correlated         bool   `json:"correlated"`
	EventID            string `json:"event_id,omitempty"`
	EventType          string `json:"event_type,omitempty"`
	CorrelationAddress string `json:"intent_address,omitempty"`
}

// statusByEventType maps vendor webhook event types to the intent status
// they imply. Events outside this map leave the tracked status untouched.
var statusByEventType = map[string]string{
	"intent.funded":    domain.IntentStatusFunded,
	"intent.initiated": domain.IntentStatusInitiated,
	"intent.completed": domain.IntentStatusCompleted,
	"intent.expired":   domain.IntentStatusExpired,
	"intent.refunded":  domain.IntentStatusRefunded,
}

// Service coordinates webhook verification, event correlation, and internal
// event publishing.
type Service struct {
	log       store.EventLog
	verifier  *Verifier
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates the application service with its dependencies.
func NewService(log store.EventLog, verifier *Verifier, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		log:       log,
		verifier:  verifier,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// VerifyAndRecord processes one inbound webhook delivery. The body must be
// the raw request bytes exactly as received; re-encoding the JSON would
// break the signature on key-order differences.
func (s *Service) VerifyAndRecord(ctx context.Context, body []byte, signatureHeader, timestampHeader string) (VerifyResult, error) {
	if err := s.verifier.Verify(body, signatureHeader, timestampHeader); err != nil {
		return VerifyResult{}, err
	}

	var event domain.ChainrailsWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.ID == "" || event.Type == "" {
		return VerifyResult{}, fmt.Errorf("%w: missing id or type", ErrMalformedPayload)
	}

	result := VerifyResult{
		Accepted:  true,
		EventID:   event.ID,
		EventType: event.Type,
	}

	address := event.CorrelationAddress()
	if address == "" {
		s.logger.Info("webhook accepted but uncorrelated",
			"event_id", event.ID, "event_type", event.Type)
		return result, nil
	}
	result.Correlated = true
	result.CorrelationAddress = address

	// The log is append-only: vendor redeliveries of the same event id are
	// preserved as distinct entries and de-duplicated by consumers.
	recorded := domain.WebhookEvent{
		ID:         event.ID,
		Type:       event.Type,
		CreatedAt:  event.CreatedAt,
		Data:       event.Data,
		ReceivedAt: s.now(),
	}
	if err := s.log.AppendEvent(ctx, address, recorded); err != nil {
		return VerifyResult{}, fmt.Errorf("failed to record webhook event: %w", err)
	}

	if status, ok := statusByEventType[event.Type]; ok {
		if err := s.log.UpdateIntentStatus(ctx, address, status); err != nil && !errors.Is(err, store.ErrIntentNotFound) {
			s.logger.Error("failed to update tracked intent status",
				"event_id", event.ID, "intent_address", address, "error", err)
		}
	}

	s.publishStatusEvent(ctx, domain.IntentStatusEvent{
		EventID:       event.ID,
		EventType:     event.Type,
		IntentAddress: address,
		Status:        statusByEventType[event.Type],
		OccurredAt:    recorded.ReceivedAt,
	})

	s.logger.Info("webhook recorded",
		"event_id", event.ID, "event_type", event.Type, "intent_address", address)
	return result, nil
}

// RecordIntentCreated starts tracking a freshly created intent so that
// status queries return an empty event log rather than "unknown" before the
// first webhook arrives. Idempotent.
func (s *Service) RecordIntentCreated(ctx context.Context, intent domain.TrackedIntent) error {
	if intent.TrackedAt.IsZero() {
		intent.TrackedAt = s.now()
	}
	if intent.Status == "" {
		intent.Status = domain.IntentStatusPending
	}
	return s.log.RegisterIntent(ctx, intent)
}

// Events returns the ordered webhook event log for a deposit address.
func (s *Service) Events(ctx context.Context, address string) ([]domain.WebhookEvent, error) {
	return s.log.EventsByAddress(ctx, address)
}

// Intent returns the tracked intent for a deposit address.
func (s *Service) Intent(ctx context.Context, address string) (*domain.TrackedIntent, error) {
	return s.log.IntentByAddress(ctx, address)
}

func (s *Service) publishStatusEvent(ctx context.Context, event domain.IntentStatusEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event.EventType, event); err != nil {
		s.logger.Error("failed to publish intent status event",
			"event_id", event.EventID, "routing_key", event.EventType, "error", err)
	}
}
