package models

import "time"

// Message is a directed text message between two users. ReadAt is nil
// until the recipient marks the message read; the transition happens at
// most conceptually once (a repeated mark just refreshes the
// timestamp, it never reverts to nil).
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username,omitempty"`
	ToUsername   string     `json:"to_username,omitempty"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`

	// Joined profile summaries, populated by reads that need them.
	FromUser *UserSummary `json:"from_user,omitempty"`
	ToUser   *UserSummary `json:"to_user,omitempty"`
}
