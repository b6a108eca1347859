// Package authz holds the request-scoped Actor and the capability Policy that
// decides what each role may do.
package authz

import (
	"github.com/google/uuid"
)

// Role is one of the three account kinds of a business.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleSalesman Role = "salesman"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleSalesman:
		return true
	}
	return false
}

// Actor identifies who performs an operation and on behalf of which business.
// It is built once per request from the JWT and passed explicitly into every
// service call.
type Actor struct {
	BusinessID uuid.UUID
	UserID     uuid.UUID
	Role       Role
}

// Owns reports whether a record scoped to businessID belongs to the actor's tenant.
func (a Actor) Owns(businessID uuid.UUID) bool {
	return a.BusinessID != uuid.Nil && a.BusinessID == businessID
}
