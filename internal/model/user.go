package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalizes a role string to its canonical uppercase form.
func ParseRole(raw string) (Role, bool) {
	switch role := Role(strings.ToUpper(strings.TrimSpace(raw))); role {
	case RoleUser, RoleAdmin:
		return role, true
	}
	return "", false
}

type User struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	Nickname            *string    `json:"nickname,omitempty"`
	FirstName           *string    `json:"first_name,omitempty"`
	LastName            *string    `json:"last_name,omitempty"`
	HashedPassword      string     `json:"-"`
	Role                Role       `json:"role"`
	EmailVerified       bool       `json:"email_verified"`
	FailedLoginAttempts int        `json:"-"`
	IsLocked            bool       `json:"is_locked"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// AuthClaims is the decoded identity carried by an access token. The subject
// is the user UUID, not the email: it stays stable if the email ever changes.
type AuthClaims struct {
	UserID string `json:"sub"`
	Role   Role   `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
