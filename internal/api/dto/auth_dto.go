package dto

import (
	"time"

	"github.com/lexpage/landing-service/internal/domain"
)

// LoginRequest payload for admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse is the public view of an admin account.
type UserResponse struct {
	ID     string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	SiteID string      `json:"siteId,omitempty"`
}

// SignupResponse is returned by a successful signup.
type SignupResponse struct {
	OK        bool         `json:"ok"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	OK   bool         `json:"ok"`
	User UserResponse `json:"user"`
}

// OKResponse acknowledges requests that have nothing else to return.
type OKResponse struct {
	OK bool `json:"ok"`
}

// NewUserResponse projects a principal for responses.
func NewUserResponse(p *domain.Principal) UserResponse {
	return UserResponse{ID: p.ID, Email: p.Email, Role: p.Role, SiteID: p.SiteID}
}
