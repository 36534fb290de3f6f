package models

// Identity is the authenticated caller as established by the auth middleware
// from a verified bearer token. Handlers never see unauthenticated requests.
type Identity struct {
	UserID string
	Role   Role
}

// IsManager reports whether the identity holds the manager role.
func (i Identity) IsManager() bool { return i.Role == RoleManager }
