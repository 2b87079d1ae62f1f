// Package models holds the row types shared by repositories and
// services on the server side.
package models

import "time"

// User is a registered account. PasswordHash is populated only when a
// repository is asked for credentials; profile reads leave it empty and
// it must never cross the transport boundary.
type User struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	JoinAt       time.Time  `json:"join_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// UserSummary is the public subset of a User attached to message rows
// and user listings.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Summary trims a User down to its public fields.
func (u *User) Summary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
