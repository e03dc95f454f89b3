package dto

import (
	"time"

	"github.com/yigit/hirelytics/internal/domain"
)

// AdminLoginRequest represents college admin credentials
type AdminLoginRequest struct {
	CollegeCode string `json:"collegeCode" binding:"required,collegecode"`
	Username    string `json:"username" binding:"required,max=100"`
	Password    string `json:"password" binding:"required,max=200"`
}

// StudentLoginRequest only needs the college code
type StudentLoginRequest struct {
	CollegeCode string `json:"collegeCode" binding:"required,collegecode"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Role        domain.Role `json:"role" example:"ADMIN"`
	CollegeCode string      `json:"collegeCode" example:"KLU01"`
	Username    string      `json:"username,omitempty"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Session SessionResponse `json:"session"`
}

// NewSessionResponse maps a domain session for the API.
func NewSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		Role:        s.Role,
		CollegeCode: s.CollegeCode,
		Username:    s.Username,
		ExpiresAt:   s.ExpiresAt,
	}
}
