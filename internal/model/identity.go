package model

import "github.com/google/uuid"

// Role is the caller's role as resolved by the identity provider.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Identity is the already-authenticated caller of an operation.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsAdmin returns true if the caller acts with the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
