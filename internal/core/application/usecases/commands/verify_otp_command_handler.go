package commands

import (
	"context"
	"time"

	"parcelhub/internal/core/ports"
)

// VerifyOTPCommandHandler checks a handoff code. The record's verdict
// (expired, exhausted, mismatch with remaining attempts, or success) is
// persisted back to the store in every case, so wrong guesses keep
// counting across requests. On success the matching phase flag is set on
// the order, which is what unlocks the PICKED_UP or DELIVERED transition.
type VerifyOTPCommandHandler struct {
	uowFactory OrderUoWFactory
	otpStore   ports.OTPRepository
}

// NewVerifyOTPCommandHandler creates a handler for OTP verification.
func NewVerifyOTPCommandHandler(
	uowFactory OrderUoWFactory,
	otpStore ports.OTPRepository,
) VerifyOTPCommandHandler {
	return VerifyOTPCommandHandler{
		uowFactory: uowFactory,
		otpStore:   otpStore,
	}
}

// Handle processes the verification command. Returns nil on success or
// when the phase was already verified; otherwise the record's error.
func (h *VerifyOTPCommandHandler) Handle(ctx context.Context, cmd VerifyOTPCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()

	record, err := h.otpStore.Get(ctx, cmd.OrderID(), cmd.Phase())
	if err != nil {
		return err
	}

	verifyErr := record.Verify(cmd.Code(), now)

	// The attempt counter and the verified flag both live in the record,
	// so it goes back to the store whatever the verdict was.
	if err = h.otpStore.Save(ctx, record); err != nil {
		return err
	}
	if verifyErr != nil {
		return verifyErr
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.MarkPhaseVerified(cmd.Phase()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
