package models

import "time"

type Genre struct {
	ID              int64     `db:"id" json:"id"`
	ChatID          int64     `db:"chat_id" json:"chat_id"`
	Title           string    `db:"title" json:"title"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	SourceMessageID int64     `db:"source_message_id" json:"source_message_id"`
	Position        int       `db:"position" json:"position"`
	Used            int       `db:"used" json:"used"` // 0 = active, 1 = used
}

// Active reports whether the genre can take part in the next genre poll.
func (g Genre) Active() bool {
	return g.Used == 0
}
