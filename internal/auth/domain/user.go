package domain

import (
	"errors"
	"strings"
	"time"
)

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleFarmer || r == RoleBuyer
}

// Opposite returns the other marketplace role.
func (r Role) Opposite() Role {
	if r == RoleFarmer {
		return RoleBuyer
	}
	return RoleFarmer
}

// User represents a registered marketplace account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate ensures the user adheres to account constraints.
func (u User) Validate() error {
	if len(strings.TrimSpace(u.Name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("email must be valid")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if !u.Role.IsValid() {
		return errors.New("role must be farmer or buyer")
	}
	if len(strings.TrimSpace(u.Location)) < 3 {
		return errors.New("location must be at least 3 characters")
	}
	return nil
}
