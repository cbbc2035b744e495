package models

// HistoryEntry is what the club read in a given month. MonthYear is encoded as
// "<month>_<year>" without zero padding, e.g. "3_2026".
type HistoryEntry struct {
	ChatID    int64   `db:"chat_id" json:"chat_id"`
	MonthYear string  `db:"month_year" json:"month_year"`
	Book      *string `db:"book" json:"book,omitempty"`
	Genre     *string `db:"genre" json:"genre,omitempty"`
}

// HistoryMonth is a decoded history row for one month of a year.
type HistoryMonth struct {
	Month int    `json:"month"`
	Genre string `json:"genre"`
	Book  string `json:"book"`
}
