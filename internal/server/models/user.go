// Package models contains the domain types shared by repositories, services
// and the HTTP layer.
package models

import "time"

// User is a registered account. Owned by the users repository; immutable
// after signup (no update/delete operations exist).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
