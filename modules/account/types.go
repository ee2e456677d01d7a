package account

import (
	"time"

	domain "github.com/example/coffee-shop/domain/member"
)

// SignupRequest is the request for registering a member.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// SignupResponse is the response after registering a member.
type SignupResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// LoginRequest is the request for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the member identity the
// browser client keeps for subsequent calls.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	MemberID  uint        `json:"member_id"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
}

// ValidateTokenRequest is the request for validating a token.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the response after validating a token.
type ValidateTokenResponse struct {
	Valid    bool        `json:"valid"`
	MemberID uint        `json:"member_id,omitempty"`
	Email    string      `json:"email,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// GetMemberRequest is the request for fetching a member.
type GetMemberRequest struct {
	ID uint `json:"id"`
}

// GetMemberResponse is the response carrying a member.
type GetMemberResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"created_at"`
}
