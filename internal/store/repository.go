/**
 * @description
 * This file defines the `EventLog` interface, the contract for all storage
 * operations the intent-service needs: registering tracked intents and
 * appending/reading their webhook event logs. The interface decouples the
 * application logic from the storage implementation so the demo-grade
 * in-memory store can later be swapped for a durable one without touching
 * the verification or correlation code.
 *
 * @dependencies
 * - context: Standard Go library.
 * - internal/domain: For the service's domain models.
 */
package store

import (
	"context"
	"errors"

	"github.com/chainrails/intent-service/internal/domain"
)

// ErrIntentNotFound is returned when no tracked intent exists for a given
// deposit address.
var ErrIntentNotFound = errors.New("intent not found")

// EventLog defines the set of methods for recording and reading webhook
// events correlated to tracked intents.
type EventLog interface {
	// RegisterIntent starts tracking an intent and initializes an empty
	// event log for its deposit address. Idempotent: re-registering an
	// address must never discard already-recorded events.
	RegisterIntent(ctx context.Context, intent domain.TrackedIntent) error

	// AppendEvent appends one event to the log for the given address,
	// creating the log if it does not yet exist. Safe for concurrent use;
	// events are kept in arrival order.
	AppendEvent(ctx context.Context, address string, event domain.WebhookEvent) error

	// EventsByAddress returns the ordered event log for an address. An
	// unknown address yields an empty slice, not an error.
	EventsByAddress(ctx context.Context, address string) ([]domain.WebhookEvent, error)

	// IntentByAddress returns the tracked intent for a deposit address.
	IntentByAddress(ctx context.Context, address string) (*domain.TrackedIntent, error)

	// ActiveIntents returns all tracked intents not yet in a terminal status.
	ActiveIntents(ctx context.Context) ([]domain.TrackedIntent, error)

	// UpdateIntentStatus records the status Chainrails last reported for the
	// intent at the given address.
	UpdateIntentStatus(ctx context.Context, address, status string) error
}
