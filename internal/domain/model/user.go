package model

import "time"

// CredentialRecord is the persisted identity of one user. ID and CreatedAt are
// assigned by the store on insert and never change; PasswordHash is the only
// field that may be rewritten afterwards (rehash upgrade).
type CredentialRecord struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// User returns the public view of the record. The password hash is dropped so
// the result is safe to hand to request handlers and clients.
func (c CredentialRecord) User() User {
	return User{
		ID:        c.ID,
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
	}
}

// User is an authenticated identity without any secret material.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}
