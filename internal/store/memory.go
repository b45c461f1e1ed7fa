/**
 * @description
 * In-memory implementation of the EventLog interface. State lives for the
 * lifetime of the process and is lost on restart; that is an explicit,
 * demo-grade choice. A production deployment would back the same interface
 * with a durable store while preserving the append atomicity and
 * idempotent-registration contracts implemented here.
 *
 * @dependencies
 * - context, sync: Standard Go libraries.
 * - internal/domain: For the service's domain models.
 */
package store

import (
	"context"
	"sync"

	"github.com/chainrails/intent-service/internal/domain"
)

// MemoryEventLog is a process-wide, mutex-guarded event store keyed by the
// intent deposit address.
type MemoryEventLog struct {
	mu      sync.RWMutex
	events  map[string][]domain.WebhookEvent
	intents map[string]domain.TrackedIntent
}

// NewMemoryEventLog creates an empty in-memory event log.
func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{
		events:  make(map[string][]domain.WebhookEvent),
		intents: make(map[string]domain.TrackedIntent),
	}
}

// RegisterIntent starts tracking an intent. Create-if-absent only: an
// address that is already tracked keeps its record and its event log.
func (m *MemoryEventLog) RegisterIntent(ctx context.Context, intent domain.TrackedIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.intents[intent.Address]; !exists {
		m.intents[intent.Address] = intent
	}
	if _, exists := m.events[intent.Address]; !exists {
		m.events[intent.Address] = []domain.WebhookEvent{}
	}
	return nil
}

// AppendEvent appends one event in arrival order, lazily creating the log.
func (m *MemoryEventLog) AppendEvent(ctx context.Context, address string, event domain.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[address] = append(m.events[address], event)
	return nil
}

// EventsByAddress returns a snapshot copy of the log so callers can iterate
// without holding the lock. Unknown addresses yield an empty slice.
func (m *MemoryEventLog) EventsByAddress(ctx context.Context, address string) ([]domain.WebhookEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.events[address]
	out := make([]domain.WebhookEvent, len(log))
	copy(out, log)
	return out, nil
}

// IntentByAddress returns the tracked intent for an address.
func (m *MemoryEventLog) IntentByAddress(ctx context.Context, address string) (*domain.TrackedIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	intent, ok := m.intents[address]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return &intent, nil
}

// ActiveIntents returns all tracked intents not yet in a terminal status.
func (m *MemoryEventLog) ActiveIntents(ctx context.Context) ([]domain.TrackedIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []domain.TrackedIntent
	for _, intent := range m.intents {
		if !domain.IsTerminalIntentStatus(intent.Status) {
			active = append(active, intent)
		}
	}
	return active, nil
}

// UpdateIntentStatus records the vendor-reported status for an address.
func (m *MemoryEventLog) UpdateIntentStatus(ctx context.Context, address, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, ok := m.intents[address]
	if !ok {
		return ErrIntentNotFound
	}
	intent.Status = status
	m.intents[address] = intent
	return nil
}
