package domain

import "time"

// Role of an authenticated session.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// Session is a live login bound to one college.
type Session struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	CollegeCode string    `json:"collegeCode"`
	Username    string    `json:"username,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
