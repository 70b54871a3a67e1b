package model

import "time"

// Admin is an identity allowed to use the admin console.
type Admin struct {
	UID          string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
