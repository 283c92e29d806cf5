package domain

import (
	"errors"
	"time"
)

// User is an API user able to obtain bearer tokens.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role represents a user's access level
type Role string

const (
	// RoleUser can operate on clients and accounts
	RoleUser Role = "USER"

	// RoleAdmin has full access to all operations
	RoleAdmin Role = "ADMIN"
)

var validRoles = map[Role]bool{
	RoleUser:  true,
	RoleAdmin: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is what a successful login or registration hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Authentication errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrRevokedToken       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrUserInactive       = errors.New("user account is inactive")
)

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Email     string
	Role      Role
	Type      TokenType
	ExpiresAt time.Time
}
