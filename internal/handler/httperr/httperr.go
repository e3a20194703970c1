package httperr

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Stable machine readable error codes.
const (
	CodeValidation                = "VALIDATION_ERROR"
	CodeNotFound                  = "NOT_FOUND"
	CodeConflict                  = "CONFLICT"
	CodeBookingConflict           = "BOOKING_CONFLICT"
	CodeIdempotencyInProgress     = "IDEMPOTENCY_IN_PROGRESS"
	CodeIdempotencyKeyReused      = "IDEMPOTENCY_KEY_REUSED"
	CodeAppointmentNotCancellable = "APPOINTMENT_NOT_CANCELLABLE"
	CodePaymentAlreadyRecorded    = "PAYMENT_ALREADY_RECORDED"
	CodePaymentInvalidState       = "PAYMENT_INVALID_STATE"
	CodeEmailTaken                = "EMAIL_ALREADY_REGISTERED"
	CodeForbidden                 = "FORBIDDEN"
	CodeUnauthorized              = "UNAUTHORIZED"
	CodeRateLimited               = "RATE_LIMITED"
	CodeInternal                  = "INTERNAL_ERROR"
)

const internalMessage = "Internal server error"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

type mapping struct {
	target error
	status int
	code   string
}

// Specific sentinels are checked before their failure class so two 409s stay
// distinguishable by code.
var specific = []mapping{
	{commands.ErrBookingConflict, http.StatusConflict, CodeBookingConflict},
	{commands.ErrIdempotencyInProgress, http.StatusConflict, CodeIdempotencyInProgress},
	{commands.ErrIdempotencyKeyReused, http.StatusConflict, CodeIdempotencyKeyReused},
	{commands.ErrAppointmentNotCancellable, http.StatusConflict, CodeAppointmentNotCancellable},
	{commands.ErrPaymentAlreadyRecorded, http.StatusConflict, CodePaymentAlreadyRecorded},
	{commands.ErrPaymentInvalidState, http.StatusConflict, CodePaymentInvalidState},
	{commands.ErrEmailTaken, http.StatusConflict, CodeEmailTaken},
}

var classes = []mapping{
	{errs.ErrValidation, http.StatusBadRequest, CodeValidation},
	{errs.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{errs.ErrConflict, http.StatusConflict, CodeConflict},
	{errs.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{errs.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{errs.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited},
}

// Classify maps err to its HTTP status, stable code and client facing message.
func Classify(err error) (status int, code, message string) {
	for _, m := range specific {
		if errs.Is(err, m.target) {
			return m.status, m.code, m.target.Error()
		}
	}
	class := errs.ClassOf(err)
	for _, m := range classes {
		if class == m.target {
			return m.status, m.code, err.Error()
		}
	}
	return http.StatusInternalServerError, CodeInternal, internalMessage
}

// Respond classifies err and aborts the request with the matching body.
// Internal failures never leak their message; outside release mode the
// stack is logged for diagnosis.
func Respond(c *gin.Context, err error) {
	status, code, message := Classify(err)
	if status == http.StatusInternalServerError {
		attrs := []any{"error", err.Error(), "path", c.Request.URL.Path}
		if gin.Mode() != gin.ReleaseMode {
			attrs = append(attrs, "stack", errs.ExtractStackLines(err, 20))
		}
		slog.Error("request failed", attrs...)
	}
	AbortWithError(c, status, err, code, message, nil)
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// BadRequest reports a binding or parameter failure.
func BadRequest(c *gin.Context, err error, detail any) {
	AbortWithError(c, http.StatusBadRequest, err, CodeValidation, "Invalid request", detail)
}

// TooManyRequests sets Retry-After in whole seconds, at least one.
func TooManyRequests(c *gin.Context, err error, retryAfter time.Duration) {
	secs := int((retryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	AbortWithError(c, http.StatusTooManyRequests, err, CodeRateLimited, "Too many requests", nil)
}

func InternalResponse() Response {
	resp := Response{Status: http.StatusInternalServerError}
	resp.Error.Code = CodeInternal
	resp.Error.Message = internalMessage
	return resp
}
