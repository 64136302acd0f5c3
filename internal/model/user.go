// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered account as stored in the users table.
//
// PasswordHash holds the bcrypt output, never the plaintext. Handlers always
// serialize a PublicUser (see Public); the json:"-" tag is a second fence.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the response projection of a User.
//
// PROJECTION, NOT SERIALIZATION:
// There is no password field here at all, so no matter how the user record
// grows, a hash can't leak through an API response by accident.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-safe view of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// PublicUsers projects a slice of users. Never returns nil, so an empty
// result encodes as [] rather than null.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}
