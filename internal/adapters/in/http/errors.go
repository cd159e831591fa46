package http

import (
	"errors"
	"net/http"

	"parcelhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// respondError translates the domain error taxonomy into an HTTP status
// and the uniform error body.
func respondError(ctx echo.Context, err error) error {
	status := statusFor(err)
	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, errs.ErrPricingInputInvalid):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrStaleState),
		errors.Is(err, errs.ErrCapacityExceeded),
		errors.Is(err, errs.ErrDuplicateIdempotencyKey),
		errors.Is(err, errs.ErrOTPNotVerified),
		errors.Is(err, errs.ErrNoRouteCapacity):
		return http.StatusConflict
	case errors.Is(err, errs.ErrOTPMismatch):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrOTPExpired):
		return http.StatusGone
	case errors.Is(err, errs.ErrOTPExhausted):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
