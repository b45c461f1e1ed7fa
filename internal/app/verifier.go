/**
 * @description
 * HMAC signature and freshness verification for inbound Chainrails webhooks.
 * Chainrails signs every delivery by computing HMAC-SHA256 over the string
 * "<timestamp>.<raw body>" with the shared webhook secret and sending the
 * hex digest in the X-Chainrails-Signature header, prefixed with "sha256=".
 *
 * Key features:
 * - Replay protection: deliveries whose timestamp differs from local time by
 *   more than the replay window are rejected before any HMAC work.
 * - Constant-time signature comparison to prevent timing side-channels.
 * - Development-mode bypass: when no secret is configured, verification is
 *   skipped entirely, but a warning is logged on every delivery so the
 *   bypass can never trigger silently.
 *
 * @dependencies
 * - crypto/hmac, crypto/sha256, encoding/hex: For signature computation.
 * - log/slog: For the bypass warning and structured failure context.
 */
package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Verification failure classes. All of them are unauthorized-class: a
// delivery that fails any check must not be recorded.
var (
	ErrInvalidTimestamp  = errors.New("webhook timestamp missing or not numeric")
	ErrStaleTimestamp    = errors.New("webhook timestamp outside the replay window")
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)

// ReplayWindow bounds how far a delivery's signing timestamp may differ from
// local time, in either direction. It tolerates clock skew and network
// latency while capping replay-attack exposure. The boundary is inclusive:
// a delivery exactly ReplayWindow old is still accepted.
const ReplayWindow = 300 * time.Second

const signaturePrefix = "sha256="

// Verifier checks the authenticity and freshness of webhook deliveries.
type Verifier struct {
	secret string
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewVerifier creates a verifier for the given shared secret. An empty
// secret puts the verifier in bypass mode.
func NewVerifier(secret string, logger *slog.Logger) *Verifier {
	return &Verifier{
		secret: secret,
		window: ReplayWindow,
		logger: logger,
		now:    time.Now,
	}
}

// Verify checks the delivery's timestamp freshness and HMAC signature
// against the raw body bytes exactly as received. It returns nil when the
// delivery is authentic, or one of the sentinel errors above.
func (v *Verifier) Verify(body []byte, signatureHeader, timestampHeader string) error {
	if v.secret == "" {
		v.logger.Warn("webhook secret is not configured, accepting delivery without verification")
		return nil
	}

	rawTimestamp := strings.TrimSpace(timestampHeader)
	timestamp, err := strconv.ParseInt(rawTimestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, timestampHeader)
	}

	skew := v.now().Unix() - timestamp
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(v.window/time.Second) {
		return fmt.Errorf("%w: skew %ds exceeds %s", ErrStaleTimestamp, skew, v.window)
	}

	// The signing string uses the timestamp exactly as the sender wrote it
	// in the header, not a re-formatted copy.
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(rawTimestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))

	provided := strings.TrimSpace(signatureHeader)
	if len(provided) != len(expected) {
		return ErrSignatureMismatch
	}
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}
