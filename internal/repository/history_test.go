package repository

import (
	"testing"

	"bookclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHistoryRepository_PartialUpsertKeepsSibling(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t), zap.NewNop())

	require.True(t, repo.UpsertHistoryGenre(1, "3_2026", "Фэнтези"))
	require.True(t, repo.UpsertHistoryBook(1, "3_2026", "Дюна"))
	require.True(t, repo.UpsertHistoryBook(1, "3_2026", "Солярис"))

	assert.Equal(t, []models.HistoryMonth{{Month: 3, Genre: "Фэнтези", Book: "Солярис"}}, repo.GetHistoryForYear(1, 2026))

	require.True(t, repo.UpsertHistoryGenre(1, "3_2026", "Классика"))
	assert.Equal(t, []models.HistoryMonth{{Month: 3, Genre: "Классика", Book: "Солярис"}}, repo.GetHistoryForYear(1, 2026))
}

func TestHistoryRepository_YearsAndMalformedKeys(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepository(db, zap.NewNop())

	require.True(t, repo.UpsertHistoryBook(1, "12_2025", "A"))
	require.True(t, repo.UpsertHistoryBook(1, "1_2026", "B"))
	require.True(t, repo.UpsertHistoryGenre(1, "11_2026", "C"))
	require.True(t, repo.UpsertHistoryBook(2, "1_2024", "other chat"))

	_, err := db.Exec(`INSERT INTO history (chat_id, month_year, book, genre) VALUES
		(1, 'garbage', 'X', ''),
		(1, 'x_2027', 'X', ''),
		(1, '5_2028', '', ''),
		(1, '6_2029', NULL, '  ')`)
	require.NoError(t, err)

	assert.Equal(t, []int{2025, 2026}, repo.GetHistoryYears(1))
	assert.Equal(t, []models.HistoryMonth{
		{Month: 1, Book: "B"},
		{Month: 11, Genre: "C"},
	}, repo.GetHistoryForYear(1, 2026))
	assert.Empty(t, repo.GetHistoryForYear(1, 2028))
	assert.Empty(t, repo.GetHistoryYears(3))
}
