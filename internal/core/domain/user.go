package domain

import "time"

// User models a registered account. Places holds the IDs of every place
// this user created, in creation order. Each entry must refer to an
// existing Place whose Creator equals this user's ID.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image"`
	Places       []string  `json:"places"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
