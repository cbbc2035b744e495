package models

import (
	"fmt"
	"time"
)

// Suggestion is a book proposed by a chat member. Its display index is its
// 1-based position in creation order and is never stored.
type Suggestion struct {
	ID              int64     `db:"id" json:"id"`
	ChatID          int64     `db:"chat_id" json:"chat_id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Username        *string   `db:"username" json:"username,omitempty"`
	Text            string    `db:"text" json:"text"`
	SourceMessageID int64     `db:"source_message_id" json:"source_message_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Author renders the suggestion owner the way lists show it.
func (s Suggestion) Author() string {
	if s.Username != nil && *s.Username != "" {
		return "@" + *s.Username
	}
	return fmt.Sprintf("ID:%d", s.UserID)
}
