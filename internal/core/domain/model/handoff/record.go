// Package handoff contains the OTP record protecting custody transfers.
// A record stores only a one-way hash of the code; the plaintext exists
// solely in the issue response, for out-of-band delivery to the person
// who must reveal it at the handoff.
package handoff

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of digits in a handoff code.
const CodeLength = 6

// ErrRecordIsNotConstructed is returned when a Record was not created
// through Issue or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via Issue constructor")

// Record is the server-side state of one OTP, bound to (order, phase).
// Re-issuing replaces the record wholesale, which resets the attempt
// counter and the expiry.
type Record struct {
	orderID       kernel.UUID
	phase         order.HandoffPhase
	codeHash      []byte
	attempts      int
	maxAttempts   int
	expiresAt     time.Time
	verified      bool
	isConstructed bool
}

// Issue generates a fresh numeric code for the given order and phase,
// returning the record (hash only) and the plaintext code exactly once.
//
// Parameters:
//   - orderID: the order being handed over
//   - phase: pickup or drop
//   - ttl: how long the code stays valid
//   - maxAttempts: wrong guesses allowed before lockout
//   - now: issue time
func Issue(
	orderID kernel.UUID,
	phase order.HandoffPhase,
	ttl time.Duration,
	maxAttempts int,
	now time.Time,
) (*Record, string, error) {
	if err := errors.Join(orderID.Validate(), phase.Validate()); err != nil {
		return nil, "", err
	}
	if ttl <= 0 {
		return nil, "", errs.NewValueIsInvalidErrorWithCause(
			"otp ttl is invalid", fmt.Errorf("%s is not positive", ttl))
	}
	if maxAttempts <= 0 {
		return nil, "", errs.NewValueIsInvalidErrorWithCause(
			"otp max attempts is invalid", fmt.Errorf("%d is not positive", maxAttempts))
	}

	code, err := generateCode()
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing otp code: %w", err)
	}

	return &Record{
		orderID:       orderID,
		phase:         phase,
		codeHash:      hash,
		maxAttempts:   maxAttempts,
		expiresAt:     now.Add(ttl),
		isConstructed: true,
	}, code, nil
}

// RestoreRecord rehydrates a record from the store.
func RestoreRecord(
	orderID kernel.UUID,
	phase order.HandoffPhase,
	codeHash []byte,
	attempts int,
	maxAttempts int,
	expiresAt time.Time,
	verified bool,
) *Record {
	return &Record{
		orderID:       orderID,
		phase:         phase,
		codeHash:      codeHash,
		attempts:      attempts,
		maxAttempts:   maxAttempts,
		expiresAt:     expiresAt,
		verified:      verified,
		isConstructed: true,
	}
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// OrderID returns the order the code is bound to.
func (r *Record) OrderID() kernel.UUID { return r.orderID }

// Phase returns the custody transfer the code protects.
func (r *Record) Phase() order.HandoffPhase { return r.phase }

// CodeHash returns the bcrypt hash for persistence.
func (r *Record) CodeHash() []byte { return r.codeHash }

// Attempts returns how many wrong guesses have been made.
func (r *Record) Attempts() int { return r.attempts }

// MaxAttempts returns the lockout threshold.
func (r *Record) MaxAttempts() int { return r.maxAttempts }

// ExpiresAt returns when the code stops being accepted.
func (r *Record) ExpiresAt() time.Time { return r.expiresAt }

// IsVerified reports whether the code has been successfully checked.
func (r *Record) IsVerified() bool { return r.verified }

// Verify checks a candidate code. The checks run in a fixed sequence:
//
//  1. already verified: succeed without re-checking (idempotent)
//  2. expired: OTPExpiredError, even for the correct code
//  3. locked out: OTPExhaustedError, even for the correct code
//  4. hash compare: a match marks the record verified; a mismatch
//     increments the attempt counter and returns OTPMismatchError with
//     the remaining attempts
//
// Only a mismatch consumes an attempt, so expired or locked-out calls
// never change the counter.
func (r *Record) Verify(candidate string, now time.Time) error {
	if r.verified {
		return nil
	}
	if now.After(r.expiresAt) {
		return errs.NewOTPExpiredError(r.phase.String())
	}
	if r.attempts >= r.maxAttempts {
		return errs.NewOTPExhaustedError(r.phase.String())
	}

	if err := bcrypt.CompareHashAndPassword(r.codeHash, []byte(candidate)); err != nil {
		r.attempts++
		return errs.NewOTPMismatchError(r.phase.String(), r.maxAttempts-r.attempts)
	}

	r.verified = true
	return nil
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generating otp code: %w", err)
	}

	return fmt.Sprintf("%0*d", CodeLength, n), nil
}
