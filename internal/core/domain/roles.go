package domain

// Role is the closed set of account roles in the system
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleMember Role = "MEMBER"
)

// ParseRole converts a raw string into a Role, reporting whether it is known
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleMember:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsAdmin reports whether the role is ADMIN
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsStaff reports whether the role is STAFF
func (r Role) IsStaff() bool {
	return r == RoleStaff
}

// IsMember reports whether the role is MEMBER
func (r Role) IsMember() bool {
	return r == RoleMember
}

// CanApprove reports whether the role may approve ledger requests at all.
// Staff-level permission flags are checked separately against the staff profile.
func (r Role) CanApprove() bool {
	return r == RoleStaff || r == RoleAdmin
}

// CanViewAllRecords reports whether the role may list other members' ledgers
func (r Role) CanViewAllRecords() bool {
	return r == RoleStaff || r == RoleAdmin
}
