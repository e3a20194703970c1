package shared

import (
	"context"
	"errors"

	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrStaffNotFound   = errs.Classed("staff not found or inactive", errs.ErrNotFound)
	ErrServiceNotFound = errs.Classed("service or combo not found or inactive", errs.ErrNotFound)
)

// Invalid marks a domain rule violation as a validation failure.
func Invalid(err error) error {
	return errs.Mark(err, errs.ErrValidation)
}

// ActiveStaff loads staffID with its weekly schedule and rejects inactive staff.
func ActiveStaff(ctx context.Context, reads CommandReads, staffID uuid.UUID) (*schedule.Staff, error) {
	staff, err := reads.StaffWithSchedule(ctx, staffID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if !staff.Active {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// ResolveLines loads the catalog entries sel refers to and prices them.
func ResolveLines(ctx context.Context, reads CommandReads, sel catalog.Selection) ([]catalog.Line, error) {
	var combo *catalog.Combo
	ids := sel.ServiceIDs
	if sel.IsCombo() {
		c, err := reads.ComboByID(ctx, *sel.ComboID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
		combo = c
		ids = c.ServiceIDs
	}

	services, err := reads.ServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines, err := catalog.Resolve(sel, services, combo)
	switch {
	case err == nil:
		return lines, nil
	case errors.Is(err, catalog.ErrServiceUnavailable), errors.Is(err, catalog.ErrComboUnavailable):
		return nil, errs.Wrap(ErrServiceNotFound, err.Error())
	default:
		return nil, Invalid(err)
	}
}
