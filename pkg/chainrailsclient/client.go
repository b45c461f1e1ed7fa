/**
 * @description
 * This package provides a client for interacting with the Chainrails
 * cross-chain transfer API. It encapsulates the logic for making
 * authenticated HTTP requests to Chainrails endpoints, handling request body
 * construction, and parsing responses. The vendor owns all transfer
 * semantics; this client is a thin, typed pass-through.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, net/url, time: Standard Go libraries.
 */
package chainrailsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a client for the Chainrails API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new Chainrails API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Chain describes one blockchain supported by Chainrails.
type Chain struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Quote is a bridge quote for moving an amount between two chains.
type Quote struct {
	SourceChain      string `json:"source_chain"`
	DestinationChain string `json:"destination_chain"`
	Token            string `json:"token"`
	AmountIn         string `json:"amount_in"`
	AmountOut        string `json:"amount_out"`
	Fee              string `json:"fee"`
	EstimatedSeconds int    `json:"estimated_seconds"`
}

// CreateIntentRequest is the payload for creating a transfer intent.
type CreateIntentRequest struct {
	SourceChain      string `json:"source_chain"`
	DestinationChain string `json:"destination_chain"`
	Token            string `json:"token"`
	Amount           string `json:"amount"`
	Recipient        string `json:"recipient"`
}

// Intent is the vendor's representation of a transfer intent. The status
// machine is owned entirely by Chainrails.
type Intent struct {
	ID            int64     `json:"id"`
	IntentAddress string    `json:"intent_address"`
	IntentStatus  string    `json:"intent_status"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ErrorResponse represents an error from the Chainrails API.
type ErrorResponse struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Status string `json:"status"`
	} `json:"errors"`
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("chainrails api error: %s - %s", e.Errors[0].Title, e.Errors[0].Detail)
	}
	return "unknown chainrails api error"
}

// GetChains lists the chains Chainrails can bridge between.
func (c *Client) GetChains(ctx context.Context) ([]Chain, error) {
	var chains []Chain
	if err := c.doRequest(ctx, http.MethodGet, "/chains", nil, &chains); err != nil {
		return nil, err
	}
	return chains, nil
}

// GetQuote fetches a bridge quote for the given route and amount.
func (c *Client) GetQuote(ctx context.Context, sourceChain, destinationChain, token, amount string) (*Quote, error) {
	query := url.Values{}
	query.Set("source_chain", sourceChain)
	query.Set("destination_chain", destinationChain)
	query.Set("token", token)
	query.Set("amount", amount)

	var quote Quote
	if err := c.doRequest(ctx, http.MethodGet, "/quotes?"+query.Encode(), nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateIntent asks Chainrails to create a transfer intent and returns the
// vendor record, including the deposit address used for correlation.
func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*Intent, error) {
	var intent Intent
	if err := c.doRequest(ctx, http.MethodPost, "/intents", req, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// GetIntent fetches the current vendor record for an intent.
func (c *Client) GetIntent(ctx context.Context, intentID int64) (*Intent, error) {
	var intent Intent
	if err := c.doRequest(ctx, http.MethodGet, "/intents/"+strconv.FormatInt(intentID, 10), nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// IntentStatus fetches just the current status label for an intent.
func (c *Client) IntentStatus(ctx context.Context, intentID int64) (string, error) {
	intent, err := c.GetIntent(ctx, intentID)
	if err != nil {
		return "", err
	}
	return intent.IntentStatus, nil
}

// doRequest is a generic helper that executes an API call and decodes the
// JSON response into out.
func (c *Client) doRequest(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-chainrails-key", c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("chainrails request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && len(apiErr.Errors) > 0 {
			return &apiErr
		}
		return fmt.Errorf("chainrails returned status %d for %s %s", resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode chainrails response: %w", err)
	}
	return nil
}
