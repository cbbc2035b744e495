package models

import (
	"encoding/json"
	"time"
)

const (
	PollStatusActive = "active"
	PollStatusClosed = "closed"
)

type Poll struct {
	ID          int64      `db:"id" json:"id"`
	ChatID      int64      `db:"chat_id" json:"chat_id"`
	PollID      string     `db:"poll_id" json:"poll_id"` // Telegram poll id
	Question    string     `db:"question" json:"question"`
	OptionsJSON string     `db:"options" json:"-"`
	MessageID   *int64     `db:"message_id" json:"message_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ClosedAt    *time.Time `db:"closed_at" json:"closed_at,omitempty"`
}

// Options decodes the stored option list. Broken JSON yields an empty list.
func (p Poll) Options() []string {
	var options []string
	if err := json.Unmarshal([]byte(p.OptionsJSON), &options); err != nil {
		return nil
	}
	return options
}
