package models

// Principal is the authenticated identity acting on a request. It is built
// once by the auth middleware and passed explicitly into every service
// operation, so authorization decisions are a function of (principal,
// resource, action) and never of ambient state.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsPublisher reports whether the principal holds the publisher role.
func (p Principal) IsPublisher() bool { return p.Role == RolePublisher }
