/**
 * @description
 * This file defines the Go structs that model incoming webhook payloads from
 * Chainrails. These structures are essential for safely unmarshaling the JSON
 * received at the webhook endpoint and correlating it with tracked intents.
 *
 * @notes
 * - The `data` object is deliberately kept as raw JSON: Chainrails does not
 *   contractually fix its shape beyond the fields we probe for, and the raw
 *   bytes must be preserved exactly as received for storage and auditing.
 */
package domain

import (
	"encoding/json"
	"time"
)

// ChainrailsWebhookEvent represents the top-level structure of a webhook
// delivery from Chainrails.
type ChainrailsWebhookEvent struct {
	ID        string          `json:"id"`   // Vendor-assigned event identifier, e.g. "evt_01j9..."
	Type      string          `json:"type"` // e.g. "intent.funded"
	CreatedAt string          `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// webhookEventData is the slice of the `data` object we probe for correlation.
type webhookEventData struct {
	IntentAddress string `json:"intent_address"`
}

// CorrelationAddress returns the deposit address this event pertains to, or
// an empty string when the payload carries none. Events without an address
// are authentic but cannot be attached to a tracked intent.
func (e ChainrailsWebhookEvent) CorrelationAddress() string {
	if len(e.Data) == 0 {
		return ""
	}
	var data webhookEventData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return ""
	}
	return data.IntentAddress
}

// WebhookEvent is the locally recorded form of a verified webhook delivery.
// ReceivedAt is assigned by this service on receipt and orders the per-intent
// event log; CreatedAt is whatever the sender claimed.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	CreatedAt  string          `json:"created_at"`
	Data       json.RawMessage `json:"data,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}
