package model

import "strconv"

// Actor is the authenticated identity attached to a single request.
// It replaces any process-wide session state: handlers receive it from the
// auth middleware and pass it explicitly to services.
type Actor struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) HasPrivilege(code string) bool {
	return RoleHasPrivilege(a.Role, code)
}

// AuditName is the value written to created_by/updated_by columns.
func (a Actor) AuditName() string {
	if a.UserID == 0 {
		return "system"
	}
	return strconv.FormatUint(uint64(a.UserID), 10)
}
