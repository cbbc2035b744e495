package models

import "time"

const (
	GroupTypeGroup      = "group"
	GroupTypeSupergroup = "supergroup"
)

// Group is a group chat the bot has been added to. Rows are never deleted;
// leaving a chat only clears IsActive.
type Group struct {
	ChatID    int64     `db:"chat_id" json:"chat_id"`
	Title     string    `db:"title" json:"title"`
	Type      string    `db:"type" json:"type"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
