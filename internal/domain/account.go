package domain

import "time"

type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"` // derived from the allow-list, not stored
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
