package dto

import "time"

// RegisterRequest payload for new credentials.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints. CsrfToken must be echoed
// back in the X-CSRF-Token header on mutating requests.
type AuthResponse struct {
	Token     string    `json:"token"`
	CsrfToken string    `json:"csrfToken"`
	ExpiresAt time.Time `json:"expires_at"`
}
