package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signDelivery(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func fixedVerifier(secret string, now time.Time) *Verifier {
	v := NewVerifier(secret, discardLogger())
	v.now = func() time.Time { return now }
	return v
}

func TestVerify_ValidSignatureFreshTimestamp(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedVerifier("whsec_test", now)

	body := []byte(`{"id":"evt_1","type":"intent.funded","data":{"intent_address":"0xabc"}}`)
	ts := strconv.FormatInt(now.Unix(), 10)

	if err := v.Verify(body, signDelivery("whsec_test", ts, body), ts); err != nil {
		t.Fatalf("expected valid delivery to verify, got %v", err)
	}
}

func TestVerify_TamperedPayloadRejected(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedVerifier("whsec_test", now)

	body := []byte(`{"id":"evt_1","type":"intent.funded"}`)
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := signDelivery("whsec_test", ts, body)

	tampered := append([]byte(nil), body...)
	tampered[len(tampered)-2] = 'X'

	err := v.Verify(tampered, sig, ts)
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestVerify_WrongLengthSignatureRejected(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedVerifier("whsec_test", now)

	body := []byte(`{}`)
	ts := strconv.FormatInt(now.Unix(), 10)

	err := v.Verify(body, "sha256=deadbeef", ts)
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch for short signature, got %v", err)
	}
}

func TestVerify_ReplayWindowBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedVerifier("whsec_test", now)
	body := []byte(`{"id":"evt_1","type":"intent.funded"}`)

	tests := []struct {
		name   string
		offset time.Duration
		stale  bool
	}{
		{name: "299s in the past", offset: -299 * time.Second, stale: false},
		{name: "exactly 300s in the past", offset: -300 * time.Second, stale: false},
		{name: "301s in the past", offset: -301 * time.Second, stale: true},
		{name: "301s in the future", offset: 301 * time.Second, stale: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := strconv.FormatInt(now.Add(tt.offset).Unix(), 10)
			err := v.Verify(body, signDelivery("whsec_test", ts, body), ts)
			if tt.stale && !errors.Is(err, ErrStaleTimestamp) {
				t.Fatalf("expected ErrStaleTimestamp, got %v", err)
			}
			if !tt.stale && err != nil {
				t.Fatalf("expected delivery inside the window to verify, got %v", err)
			}
		})
	}
}

func TestVerify_NonNumericTimestampRejected(t *testing.T) {
	v := fixedVerifier("whsec_test", time.Unix(1_700_000_000, 0))
	body := []byte(`{}`)

	for _, ts := range []string{"", "not-a-number", "17e9"} {
		err := v.Verify(body, signDelivery("whsec_test", ts, body), ts)
		if !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("timestamp %q: expected ErrInvalidTimestamp, got %v", ts, err)
		}
	}
}

func TestVerify_NoSecretBypassesAllChecks(t *testing.T) {
	v := fixedVerifier("", time.Unix(1_700_000_000, 0))

	// Garbage signature and timestamp must both be accepted in bypass mode.
	if err := v.Verify([]byte(`{}`), "sha256=bogus", "garbage"); err != nil {
		t.Fatalf("expected bypass mode to accept anything, got %v", err)
	}
}

func TestVerify_TimestampSignedAsWritten(t *testing.T) {
	// The sender signs the literal header text; a header with surrounding
	// whitespace must still verify against the trimmed value.
	now := time.Unix(1_700_000_000, 0)
	v := fixedVerifier("whsec_test", now)

	body := []byte(`{"id":"evt_1","type":"intent.funded"}`)
	ts := strconv.FormatInt(now.Unix(), 10)

	if err := v.Verify(body, signDelivery("whsec_test", ts, body), "  "+ts+" "); err != nil {
		t.Fatalf("expected whitespace-padded timestamp header to verify, got %v", err)
	}
}
