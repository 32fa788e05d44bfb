package domain

import (
	"context"
	"errors"
	"time"
)

// Employee represents a system user who runs shifts and operates drawers.
type Employee struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role represents an employee's access level.
type Role string

const (
	// RoleAdmin can end any shift, abandon shifts and adjust drawers.
	RoleAdmin Role = "admin"

	// RoleCashier can run their own shifts and drawer operations.
	RoleCashier Role = "cashier"
)

var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleCashier: true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Elevated reports whether the role can act on resources it does not own.
func (r Role) Elevated() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type employeeContextKey struct{}

// ContextWithEmployee returns a context carrying the authenticated employee.
func ContextWithEmployee(ctx context.Context, e *Employee) context.Context {
	return context.WithValue(ctx, employeeContextKey{}, e)
}

// EmployeeFromContext extracts the authenticated employee from context.
func EmployeeFromContext(ctx context.Context) (*Employee, bool) {
	e, ok := ctx.Value(employeeContextKey{}).(*Employee)
	return e, ok
}
