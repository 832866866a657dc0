package domain

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the account role reported by the API.
type Role int

const (
	RoleAdmin  Role = 0
	RoleEditor Role = 1
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleEditor:
		return "editor"
	default:
		return "unknown"
	}
}

// User models the signed-in account as returned by GET /users/me.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Verified  bool   `json:"verified"`
	Img       string `json:"img"`
	LastSeen  string `json:"last_seen"`
	Role      Role   `json:"role"`
}

// Name joins first and last name, skipping empty parts.
func (u User) Name() string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
}

// Tokens is the access/refresh pair issued by the auth endpoints.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Empty reports whether no refresh token is held.
func (t Tokens) Empty() bool {
	return t.Refresh == ""
}

// AccessClaims mirrors the payload of an access token.
type AccessClaims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// ExpiresWithin reports whether the token expires before now+d. Tokens
// without an exp claim never expire.
func (c AccessClaims) ExpiresWithin(now time.Time, d time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Before(now.Add(d))
}

// Organization is the sender's company profile.
type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zipcode     string    `json:"zipcode"`
	Country     string    `json:"country"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Website     string    `json:"website"`
	ClientLogo  *string   `json:"clientLogo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SignUp carries the registration form.
type SignUp struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// BaseResponse is the generic acknowledgement envelope of the API.
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
