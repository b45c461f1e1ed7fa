/**
 * @description
 * Domain model for transfer intents. An intent is created on the Chainrails
 * side; its status machine is owned and transitioned exclusively by the
 * vendor. This service only tracks intents locally so that webhook events
 * can be correlated and statuses displayed.
 */
package domain

import "time"

// Intent statuses as reported by Chainrails. This service never transitions
// an intent itself; it mirrors whatever the vendor last reported.
const (
	IntentStatusPending   = "PENDING"
	IntentStatusFunded    = "FUNDED"
	IntentStatusInitiated = "INITIATED"
	IntentStatusCompleted = "COMPLETED"
	IntentStatusExpired   = "EXPIRED"
	IntentStatusRefunded  = "REFUNDED"
)

// IsTerminalIntentStatus reports whether the vendor will emit no further
// transitions for an intent in the given status.
func IsTerminalIntentStatus(status string) bool {
	switch status {
	case IntentStatusCompleted, IntentStatusExpired, IntentStatusRefunded:
		return true
	}
	return false
}

// TrackedIntent is the local record of a Chainrails intent. The Address is
// the on-chain deposit address and doubles as the correlation key for the
// webhook event log.
type TrackedIntent struct {
	ID        int64     `json:"id"`
	Address   string    `json:"intent_address"`
	Status    string    `json:"intent_status"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	TrackedAt time.Time `json:"tracked_at"`
}
