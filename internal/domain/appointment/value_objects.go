package appointment

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	cancelPrefix        = "Cancelled: "
	defaultCancelReason = "Cancelled by user"
)

type Notes struct {
	value string
}

func NewNotes(value string, maxLength int) (Notes, error) {
	value = strings.TrimSpace(value)
	if maxLength > 0 && utf8.RuneCountInString(value) > maxLength {
		return Notes{}, ErrNotesTooLong
	}
	return Notes{value: value}, nil
}

func ReconstructNotes(value string) Notes {
	return Notes{value: value}
}

func (n Notes) String() string {
	return n.value
}

func (n Notes) IsEmpty() bool {
	return n.value == ""
}

func (n Notes) withLine(line string) Notes {
	if n.value == "" {
		return Notes{value: line}
	}
	return Notes{value: n.value + "\n" + line}
}

// CancelNote renders the note appended on cancellation. reason is trimmed and
// cut to maxLength runes.
func CancelNote(reason string, maxLength int) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return defaultCancelReason
	}
	if maxLength > 0 && utf8.RuneCountInString(reason) > maxLength {
		reason = string([]rune(reason)[:maxLength])
	}
	return cancelPrefix + reason
}

// ServiceSnapshot is the immutable price-at-booking line of an appointment.
type ServiceSnapshot struct {
	ServiceID   uuid.UUID
	Name        string
	Position    int
	DurationMin int
	PriceCents  int64
}
