package domain

import "time"

// Credential is a stored login identity.
type Credential struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the resolved caller attached to a request after token
// verification. A zero Identity means the caller is anonymous.
type Identity struct {
	SubjectID string
	Email     string
}

// Anonymous reports whether no bearer token was presented.
func (i Identity) Anonymous() bool {
	return i.SubjectID == ""
}
