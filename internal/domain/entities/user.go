package entities

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the application-level role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authority returns the role as an authorization authority ("ROLE_ADMIN").
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// User is a platform account. Credentials live in the identity provider,
// linked through ExternalID.
type User struct {
	ID              uuid.UUID
	Email           string
	FirstName       string
	LastName        string
	Role            Role
	Enabled         bool
	ExternalID      string
	PhotoProfileURL string
	Audit
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
