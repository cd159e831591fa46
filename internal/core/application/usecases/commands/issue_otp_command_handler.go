package commands

import (
	"context"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/handoff"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"
)

// OTPPolicy bounds issued handoff codes.
type OTPPolicy struct {
	// TTL is how long a code stays valid.
	TTL time.Duration
	// MaxAttempts is the wrong guesses allowed before lockout.
	MaxAttempts int
}

// IssueOTPCommandHandler issues handoff codes. The store keeps only the
// bcrypt hash; the plaintext is returned exactly once, for out-of-band
// delivery to whoever must reveal it at the handoff.
type IssueOTPCommandHandler struct {
	uowFactory OrderUoWFactory
	otpStore   ports.OTPRepository
	policy     OTPPolicy
}

// NewIssueOTPCommandHandler creates a handler for OTP issuance.
func NewIssueOTPCommandHandler(
	uowFactory OrderUoWFactory,
	otpStore ports.OTPRepository,
	policy OTPPolicy,
) IssueOTPCommandHandler {
	return IssueOTPCommandHandler{
		uowFactory: uowFactory,
		otpStore:   otpStore,
		policy:     policy,
	}
}

// Handle processes the issue command and returns the plaintext code.
// Issuing for a terminal order is rejected; there is no handoff left to
// protect.
func (h *IssueOTPCommandHandler) Handle(ctx context.Context, cmd IssueOTPCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if o.Status().IsTerminal() {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"order status is invalid",
			fmt.Errorf("%s order has no pending handoff", o.Status()))
	}

	record, code, err := handoff.Issue(
		cmd.OrderID(), cmd.Phase(), h.policy.TTL, h.policy.MaxAttempts, now)
	if err != nil {
		return "", err
	}

	if err = h.otpStore.Save(ctx, record); err != nil {
		return "", err
	}

	return code, nil
}
