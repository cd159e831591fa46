package handoff_test

import (
	"testing"
	"time"

	"parcelhub/internal/core/domain/model/handoff"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTTL         = 10 * time.Minute
	testMaxAttempts = 3
)

func issue(t *testing.T) (*handoff.Record, string, time.Time) {
	t.Helper()
	now := time.Date(2025, 8, 23, 10, 0, 0, 0, time.UTC)
	record, code, err := handoff.Issue(
		kernel.NewUUID(), order.PhasePickup, testTTL, testMaxAttempts, now)
	require.NoError(t, err)
	return record, code, now
}

func TestIssue(t *testing.T) {
	record, code, now := issue(t)

	assert.Len(t, code, handoff.CodeLength)
	assert.Equal(t, now.Add(testTTL), record.ExpiresAt())
	assert.Equal(t, 0, record.Attempts())
	assert.False(t, record.IsVerified())

	// hash-only storage: the plaintext never appears in the record
	assert.NotContains(t, string(record.CodeHash()), code)
}

func TestIssue_Validation(t *testing.T) {
	now := time.Now()

	_, _, err := handoff.Issue(kernel.NewUUID(), order.PhaseUnknown, testTTL, 3, now)
	require.Error(t, err)

	_, _, err = handoff.Issue(kernel.NewUUID(), order.PhaseDrop, 0, 3, now)
	require.Error(t, err)

	_, _, err = handoff.Issue(kernel.NewUUID(), order.PhaseDrop, testTTL, 0, now)
	require.Error(t, err)
}

func TestRecord_Verify(t *testing.T) {
	t.Run("correct code verifies", func(t *testing.T) {
		record, code, now := issue(t)

		require.NoError(t, record.Verify(code, now.Add(time.Minute)))
		assert.True(t, record.IsVerified())
	})

	t.Run("wrong code counts an attempt", func(t *testing.T) {
		record, _, now := issue(t)

		err := record.Verify("000000", now)

		require.ErrorIs(t, err, errs.ErrOTPMismatch)
		var mismatch *errs.OTPMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.Remaining)
		assert.Equal(t, 1, record.Attempts())
	})

	t.Run("expired rejects even the correct code", func(t *testing.T) {
		record, code, now := issue(t)

		err := record.Verify(code, now.Add(testTTL+time.Second))

		require.ErrorIs(t, err, errs.ErrOTPExpired)
		assert.False(t, record.IsVerified())
		assert.Equal(t, 0, record.Attempts(), "expiry does not consume attempts")
	})

	t.Run("two wrong then correct still succeeds", func(t *testing.T) {
		record, code, now := issue(t)

		require.ErrorIs(t, record.Verify("000000", now), errs.ErrOTPMismatch)
		require.ErrorIs(t, record.Verify("111111", now), errs.ErrOTPMismatch)
		require.NoError(t, record.Verify(code, now))
	})

	t.Run("three wrong locks out the correct code", func(t *testing.T) {
		record, code, now := issue(t)

		require.ErrorIs(t, record.Verify("000000", now), errs.ErrOTPMismatch)
		require.ErrorIs(t, record.Verify("111111", now), errs.ErrOTPMismatch)
		require.ErrorIs(t, record.Verify("222222", now), errs.ErrOTPMismatch)

		err := record.Verify(code, now)
		require.ErrorIs(t, err, errs.ErrOTPExhausted)
		assert.Equal(t, 3, record.Attempts(), "lockout does not consume attempts")
	})

	t.Run("re-verifying a verified phase is idempotent", func(t *testing.T) {
		record, code, now := issue(t)
		require.NoError(t, record.Verify(code, now))

		// succeeds without re-checking, even with a wrong code or past
		// expiry
		require.NoError(t, record.Verify("000000", now.Add(testTTL+time.Hour)))
	})
}

func TestRecord_ReissueResetsState(t *testing.T) {
	record, _, now := issue(t)
	require.ErrorIs(t, record.Verify("000000", now), errs.ErrOTPMismatch)

	fresh, code, err := handoff.Issue(
		record.OrderID(), record.Phase(), testTTL, testMaxAttempts, now)
	require.NoError(t, err)

	assert.Equal(t, 0, fresh.Attempts())
	require.NoError(t, fresh.Verify(code, now))
}

func TestRestoreRecord(t *testing.T) {
	record, _, now := issue(t)

	restored := handoff.RestoreRecord(
		record.OrderID(), record.Phase(), record.CodeHash(),
		2, testMaxAttempts, record.ExpiresAt(), false)

	require.NoError(t, restored.Validate())
	assert.Equal(t, 2, restored.Attempts())

	err := restored.Verify("000000", now)
	require.ErrorIs(t, err, errs.ErrOTPMismatch)

	err = restored.Verify("000000", now)
	require.ErrorIs(t, err, errs.ErrOTPExhausted)
}

func TestRecord_ZeroValueIsInvalid(t *testing.T) {
	var r handoff.Record
	require.ErrorIs(t, r.Validate(), handoff.ErrRecordIsNotConstructed)
}
