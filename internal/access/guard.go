// Package access holds the authorization predicates evaluated before any
// business logic runs. Guards are pure: they only inspect the principal.
package access

import (
	"shop-service/internal/model"
	"shop-service/pkg/apperr"
)

const (
	msgUnauthorized = "Unauthorized user"
	msgForbidden    = "Access denied"
)

// Principal is the identity carried by a verified token
type Principal struct {
	UserID uint
	Email  string
	Role   model.Role
}

// Guard is one access predicate
type Guard func(p *Principal) error

// RequireAuthenticated fails with unauthorized when there is no principal.
func RequireAuthenticated(p *Principal) error {
	if p == nil {
		return apperr.Unauthorized(msgUnauthorized)
	}
	return nil
}

// RequireRole fails with forbidden unless the principal has exactly role.
func RequireRole(p *Principal, role model.Role) error {
	return RequireAnyRole(p, role)
}

// RequireAnyRole fails with forbidden unless the principal's role is one of roles.
func RequireAnyRole(p *Principal, roles ...model.Role) error {
	if p != nil {
		for _, r := range roles {
			if p.Role == r {
				return nil
			}
		}
	}
	return apperr.Forbidden(msgForbidden)
}

// Authenticated is RequireAuthenticated as a Guard
func Authenticated() Guard {
	return RequireAuthenticated
}

// AnyRole is RequireAnyRole as a Guard
func AnyRole(roles ...model.Role) Guard {
	return func(p *Principal) error {
		return RequireAnyRole(p, roles...)
	}
}

// Evaluate runs guards in order and returns the first failure.
func Evaluate(p *Principal, guards ...Guard) error {
	for _, g := range guards {
		if err := g(p); err != nil {
			return err
		}
	}
	return nil
}
