package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/handoff"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
)

// otpRetention keeps expired records around long enough that a late
// verify still gets OTPExpiredError instead of "no code issued".
const otpRetention = time.Hour

// OTPStore implements OTPRepository over Redis. Records are keyed by
// (order, phase) and hold only the bcrypt hash, never the plaintext.
type OTPStore struct {
	client *goredis.Client
}

// NewOTPStore creates an OTP record store over the given client.
func NewOTPStore(client *goredis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// otpRecord is the stored form of a handoff record.
type otpRecord struct {
	CodeHash    []byte    `json:"code_hash"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	ExpiresAt   time.Time `json:"expires_at"`
	Verified    bool      `json:"verified"`
}

// Save stores or replaces the record for its (order, phase) key. The key
// lives until the code's expiry plus a retention window, so the attempt
// counter survives process restarts for the code's whole life.
func (s *OTPStore) Save(ctx context.Context, record *handoff.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(otpRecord{
		CodeHash:    record.CodeHash(),
		Attempts:    record.Attempts(),
		MaxAttempts: record.MaxAttempts(),
		ExpiresAt:   record.ExpiresAt(),
		Verified:    record.IsVerified(),
	})
	if err != nil {
		return fmt.Errorf("marshaling otp record: %w", err)
	}

	ttl := time.Until(record.ExpiresAt()) + otpRetention
	if ttl < otpRetention {
		ttl = otpRetention
	}

	return s.client.Set(ctx, otpKey(record.OrderID(), record.Phase()), payload, ttl).Err()
}

// Get retrieves the record for (order, phase).
func (s *OTPStore) Get(
	ctx context.Context,
	orderID kernel.UUID,
	phase order.HandoffPhase,
) (*handoff.Record, error) {
	raw, err := s.client.Get(ctx, otpKey(orderID, phase)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errs.NewObjectNotFoundError("otp record", orderID.String())
		}
		return nil, err
	}

	var stored otpRecord
	if err = json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("unmarshaling otp record: %w", err)
	}

	return handoff.RestoreRecord(
		orderID, phase,
		stored.CodeHash, stored.Attempts, stored.MaxAttempts,
		stored.ExpiresAt, stored.Verified,
	), nil
}

// Delete removes the record once its phase has been verified.
func (s *OTPStore) Delete(ctx context.Context, orderID kernel.UUID, phase order.HandoffPhase) error {
	return s.client.Del(ctx, otpKey(orderID, phase)).Err()
}

func otpKey(orderID kernel.UUID, phase order.HandoffPhase) string {
	return fmt.Sprintf("otp:%s:%s", orderID, phase)
}
