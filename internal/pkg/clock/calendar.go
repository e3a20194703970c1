package clock

import (
	"errors"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrMinuteOutOfRange = errors.New("minute of day out of range")
	ErrNilLocation      = errors.New("location is required")
)

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AtMinute builds the instant minute minutes after midnight of day's calendar date,
// honouring DST transitions of day's location.
func AtMinute(day time.Time, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, day.Location())
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, ErrNilLocation
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func ValidateMinute(minute int) error {
	if minute < 0 || minute > MinutesPerDay {
		return ErrMinuteOutOfRange
	}
	return nil
}
