/**
 * @description
 * Scheduled job implementations for the intent-service. Webhooks are the
 * primary status channel, but deliveries can be lost or delayed, so a
 * periodic job reconciles tracked, non-terminal intents against the
 * Chainrails API and records any transitions it finds.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/chainrails/intent-service/internal/domain"
	"github.com/chainrails/intent-service/internal/store"
)

// IntentStatusFetcher defines the vendor API operation the refresh job needs.
type IntentStatusFetcher interface {
	IntentStatus(ctx context.Context, intentID int64) (string, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	log       store.EventLog
	client    IntentStatusFetcher
	publisher EventPublisher
	logger    *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(log store.EventLog, client IntentStatusFetcher, publisher EventPublisher, logger *slog.Logger) *Jobs {
	return &Jobs{
		log:       log,
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

// RefreshIntentStatuses re-fetches the vendor status of every tracked,
// non-terminal intent and records transitions the webhooks missed.
func (j *Jobs) RefreshIntentStatuses() {
	ctx := context.Background()

	intents, err := j.log.ActiveIntents(ctx)
	if err != nil {
		j.logger.Error("failed to list active intents", "error", err)
		return
	}
	if len(intents) == 0 {
		return
	}

	j.logger.Info("refreshing intent statuses", "count", len(intents))

	for _, intent := range intents {
		status, err := j.client.IntentStatus(ctx, intent.ID)
		if err != nil {
			j.logger.Error("failed to fetch intent status",
				"intent_id", intent.ID, "intent_address", intent.Address, "error", err)
			continue
		}
		if status == "" || status == intent.Status {
			continue
		}

		if err := j.log.UpdateIntentStatus(ctx, intent.Address, status); err != nil {
			j.logger.Error("failed to record refreshed intent status",
				"intent_id", intent.ID, "intent_address", intent.Address, "error", err)
			continue
		}

		j.logger.Info("intent status refreshed",
			"intent_id", intent.ID, "intent_address", intent.Address,
			"from", intent.Status, "to", status)

		if j.publisher != nil {
			event := domain.IntentStatusEvent{
				EventType:     "intent.status.refreshed",
				IntentID:      intent.ID,
				IntentAddress: intent.Address,
				Status:        status,
			}
			if err := j.publisher.Publish(ctx, event.EventType, event); err != nil {
				j.logger.Error("failed to publish refreshed status event",
					"intent_id", intent.ID, "error", err)
			}
		}
	}
}
