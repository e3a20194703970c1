package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptySelection     = errors.New("either serviceIds or comboId is required")
	ErrAmbiguousSelection = errors.New("serviceIds and comboId are mutually exclusive")
	ErrTooManyServices    = errors.New("too many services requested")
	ErrDuplicateService   = errors.New("duplicate service id")
	ErrServiceUnavailable = errors.New("service not found or inactive")
	ErrComboUnavailable   = errors.New("combo not found or inactive")
	ErrZeroDuration       = errors.New("total service duration must be positive")
	ErrNegativePrice      = errors.New("price cannot be negative")
)

type Service struct {
	ID          uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
	Active      bool
}

type Combo struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	Active     bool
	ServiceIDs []uuid.UUID
}

// Selection is what a caller asks to book: a list of services or one combo.
type Selection struct {
	ServiceIDs []uuid.UUID
	ComboID    *uuid.UUID
}

func NewSelection(serviceIDs []uuid.UUID, comboID *uuid.UUID, maxServiceIDs int) (Selection, error) {
	switch {
	case len(serviceIDs) == 0 && comboID == nil:
		return Selection{}, ErrEmptySelection
	case len(serviceIDs) > 0 && comboID != nil:
		return Selection{}, ErrAmbiguousSelection
	case maxServiceIDs > 0 && len(serviceIDs) > maxServiceIDs:
		return Selection{}, ErrTooManyServices
	}

	seen := make(map[uuid.UUID]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		if _, dup := seen[id]; dup {
			return Selection{}, ErrDuplicateService
		}
		seen[id] = struct{}{}
	}

	return Selection{ServiceIDs: serviceIDs, ComboID: comboID}, nil
}

func (s Selection) IsCombo() bool { return s.ComboID != nil }

// Line is one priced service of a booking in display order.
type Line struct {
	ServiceID   uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
}

// Resolve turns a selection into priced lines. services must contain every
// referenced service; combo is required when the selection names one.
func Resolve(sel Selection, services map[uuid.UUID]Service, combo *Combo) ([]Line, error) {
	ids := sel.ServiceIDs
	if sel.IsCombo() {
		if combo == nil || !combo.Active || combo.ID != *sel.ComboID || len(combo.ServiceIDs) == 0 {
			return nil, ErrComboUnavailable
		}
		ids = combo.ServiceIDs
	}

	lines := make([]Line, 0, len(ids))
	for _, id := range ids {
		svc, ok := services[id]
		if !ok || !svc.Active {
			return nil, ErrServiceUnavailable
		}
		if svc.PriceCents < 0 {
			return nil, ErrNegativePrice
		}
		lines = append(lines, Line{
			ServiceID:   svc.ID,
			Name:        svc.Name,
			DurationMin: svc.DurationMin,
			PriceCents:  svc.PriceCents,
		})
	}

	if TotalDuration(lines) <= 0 {
		return nil, ErrZeroDuration
	}

	if sel.IsCombo() {
		if combo.PriceCents < 0 {
			return nil, ErrNegativePrice
		}
		lines = AllocatePrice(combo.PriceCents, lines)
	}
	return lines, nil
}

func TotalDuration(lines []Line) time.Duration {
	var total int
	for _, l := range lines {
		total += l.DurationMin
	}
	return time.Duration(total) * time.Minute
}

func TotalPrice(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.PriceCents
	}
	return total
}

// AllocatePrice spreads total across lines proportionally to their list
// prices. The rounding remainder goes to the last line so the sum is exact.
// With an all-zero list the total is split evenly.
func AllocatePrice(total int64, lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	if len(out) == 0 {
		return out
	}

	listTotal := TotalPrice(lines)
	var allocated int64
	for i := range out[:len(out)-1] {
		var share int64
		if listTotal > 0 {
			share = total * out[i].PriceCents / listTotal
		} else {
			share = total / int64(len(out))
		}
		out[i].PriceCents = share
		allocated += share
	}
	out[len(out)-1].PriceCents = total - allocated
	return out
}
