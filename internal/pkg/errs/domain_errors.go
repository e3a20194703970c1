package errs

// Failure classes shared by every layer. Specific errors are declared where they
// originate and marked with one of these so the HTTP boundary can classify them.
var (
	ErrValidation   = New("validation error")
	ErrNotFound     = New("not found")
	ErrConflict     = New("conflict")
	ErrUnauthorized = New("unauthorized")
	ErrForbidden    = New("forbidden")
	ErrRateLimited  = New("rate limited")
	ErrInternal     = New("internal error")
)

// classed is a sentinel whose chain ends in its failure class. Two sentinels
// of one class stay distinct under Is because their messages differ.
type classed struct {
	msg   string
	class error
}

func (e *classed) Error() string { return e.msg }
func (e *classed) Unwrap() error { return e.class }

// Classed declares a sentinel that also matches the given failure class.
func Classed(msg string, class error) error {
	return &classed{msg: msg, class: class}
}

// ClassOf returns the failure class of err, defaulting to ErrInternal.
func ClassOf(err error) error {
	for _, class := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnauthorized, ErrForbidden, ErrRateLimited} {
		if Is(err, class) {
			return class
		}
	}
	return ErrInternal
}
