package models

import "time"

// User is a stored account. Token is NULL while the user is logged out;
// a non-NULL token maps to exactly one user.
type User struct {
	ID           int64     `db:"id" json:"-"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Token        *string   `db:"token" json:"-"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// OnlineUser is the wire shape of a single presence entry.
type OnlineUser struct {
	Username string `json:"username"`
}
