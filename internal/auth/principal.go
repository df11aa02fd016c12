package auth

import (
	"time"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Principal is the authenticated caller. The zero value is anonymous.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (p Principal) Anonymous() bool { return p.ID == "" }

func (p Principal) IsAdmin() bool { return !p.Anonymous() && p.Role == RoleAdmin }

// RequireAdmin gates every campaign-mutating operation.
func RequireAdmin(p Principal) error {
	if p.Anonymous() {
		return apperr.Unauthorized(apperr.CodeAuthRequired, "authentication required")
	}
	if !p.IsAdmin() {
		return apperr.Unauthorized(apperr.CodeAuthForbidden, "user %s is not an admin", p.Username)
	}
	return nil
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}
