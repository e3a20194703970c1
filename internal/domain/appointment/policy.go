package appointment

import (
	"salon-booking/internal/domain/user"

	"github.com/google/uuid"
)

type Action string

const (
	ActionView          Action = "view"
	ActionCancel        Action = "cancel"
	ActionRecordPayment Action = "record_payment"
)

// Owners identifies who an appointment belongs to.
type Owners struct {
	StaffID  uuid.UUID
	ClientID uuid.UUID
}

func (a *Appointment) Owners() Owners {
	return Owners{StaffID: a.staffID, ClientID: a.clientID}
}

// Allowed is the per-request capability check. ADMIN may do anything, STAFF
// acts on appointments assigned to them, CLIENT may view or cancel their own.
func Allowed(p user.Principal, action Action, o Owners) bool {
	switch p.Role {
	case user.RoleAdmin:
		return true
	case user.RoleStaff:
		return p.IsStaffMember(o.StaffID)
	case user.RoleClient:
		if action == ActionRecordPayment {
			return false
		}
		return p.IsClient(o.ClientID)
	default:
		return false
	}
}
