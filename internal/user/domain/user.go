package domain

import "time"

type ID string

// User is the persisted account record. PasswordHash never leaves the
// repository/hasher boundary; use Sanitized before returning a user anywhere.
type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized is the outward-facing view of a User with the credential stripped.
type Sanitized struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Sanitized() Sanitized {
	return Sanitized{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
