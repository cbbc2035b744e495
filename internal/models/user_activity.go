package models

import "time"

type UserActivity struct {
	ChatID         int64      `db:"chat_id" json:"chat_id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	Username       *string    `db:"username" json:"username,omitempty"`
	FirstSeenAt    *time.Time `db:"first_seen_at" json:"first_seen_at,omitempty"`
	LastActivityAt *time.Time `db:"last_activity_at" json:"last_activity_at,omitempty"`
}

// ActivityRow is one coalesced "user was active" observation waiting to be written.
type ActivityRow struct {
	ChatID   int64
	UserID   int64
	Username *string
}

// ImportedUser is a member row parsed from a CSV roster.
type ImportedUser struct {
	UserID   int64
	Username *string
}
