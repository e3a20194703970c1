package user

import "github.com/google/uuid"

// Principal is the server-side resolved identity of a request.
type Principal struct {
	UserID   uuid.UUID
	Role     Role
	StaffID  *uuid.UUID
	ClientID *uuid.UUID
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) IsStaffMember(staffID uuid.UUID) bool {
	return p.Role == RoleStaff && p.StaffID != nil && *p.StaffID == staffID
}

func (p Principal) IsClient(clientID uuid.UUID) bool {
	return p.Role == RoleClient && p.ClientID != nil && *p.ClientID == clientID
}
