package commands

import (
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"
)

// Each sentinel carries its failure class; the HTTP layer maps the specific
// sentinel to a stable code and falls back to the class.
var (
	ErrAppointmentNotFound       = errs.Classed("appointment not found", errs.ErrNotFound)
	ErrStaffNotFound             = shared.ErrStaffNotFound
	ErrServiceNotFound           = shared.ErrServiceNotFound
	ErrBookingConflict           = errs.Classed("the requested time overlaps an existing appointment", errs.ErrConflict)
	ErrIdempotencyInProgress     = errs.Classed("a request with this idempotency key is still being processed", errs.ErrConflict)
	ErrIdempotencyKeyReused      = errs.Classed("idempotency key was used with a different request", errs.ErrConflict)
	ErrAppointmentNotCancellable = errs.Classed("appointment cannot be cancelled in its current status", errs.ErrConflict)
	ErrPaymentAlreadyRecorded    = errs.Classed("a payment is already recorded for this appointment", errs.ErrConflict)
	ErrPaymentInvalidState       = errs.Classed("payments can only be recorded for pending or confirmed appointments", errs.ErrConflict)
	ErrActionForbidden           = errs.Classed("not allowed to act on this appointment", errs.ErrForbidden)
	ErrAuthenticationRequired    = errs.Classed("authentication required", errs.ErrUnauthorized)
)

// outcomeOf names the failure class of err for metrics and spans.
func outcomeOf(err error) string {
	switch errs.ClassOf(err) {
	case errs.ErrValidation:
		return "validation"
	case errs.ErrNotFound:
		return "not_found"
	case errs.ErrConflict:
		return "conflict"
	case errs.ErrUnauthorized:
		return "unauthorized"
	case errs.ErrForbidden:
		return "forbidden"
	case errs.ErrRateLimited:
		return "rate_limited"
	default:
		return "error"
	}
}
