/**
 * @description
 * Internal event payloads published to RabbitMQ when Chainrails notifies us
 * about an intent lifecycle change, either via a verified webhook or via the
 * periodic status refresh job.
 */
package domain

import "time"

// IntentStatusEvent is broadcast on the intent_events exchange after a
// webhook has been verified and correlated, or after the refresh job
// observes a status transition.
type IntentStatusEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	IntentID      int64     `json:"intent_id,omitempty"`
	IntentAddress string    `json:"intent_address"`
	Status        string    `json:"status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
