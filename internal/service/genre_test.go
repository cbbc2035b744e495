package service

import (
	"testing"

	"bookclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGenreService(t *testing.T) *GenreService {
	return NewGenreService(repository.NewGenreRepository(newTestDB(t), zap.NewNop()), fixedClock(2026, 3, 15), zap.NewNop())
}

func TestGenreService_ToggleAndPollEligibility(t *testing.T) {
	s := newGenreService(t)
	assert.Equal(t, GenresEmpty, s.ListGenres(1))

	require.True(t, s.AddGenre(1, "Фэнтези", 1))
	require.True(t, s.AddGenre(1, "Детектив", 2))

	ok, msg := s.ToggleGenreActive(1, 1)
	require.True(t, ok)
	assert.Equal(t, "Жанр 'Фэнтези' теперь неактивным", msg)
	assert.Equal(t, "1. Фэнтези ⚪\n2. Детектив 🟢", s.ListGenres(1))

	titles, month := s.GenresForPoll(1)
	assert.Equal(t, []string{"Детектив"}, titles)
	assert.Equal(t, "марта", month)

	ok, msg = s.ToggleGenreActive(1, 1)
	require.True(t, ok)
	assert.Equal(t, "Жанр 'Фэнтези' теперь активным", msg)

	ok, msg = s.ToggleGenreActive(1, 9)
	assert.False(t, ok)
	assert.Equal(t, "Жанр с номером 9 не найден", msg)
}

func TestGenreService_ResetAndDelete(t *testing.T) {
	s := newGenreService(t)
	ok, msg := s.ResetAllGenresActive(1)
	assert.False(t, ok)
	assert.Equal(t, "Нет жанров для обновления", msg)

	require.True(t, s.AddGenre(1, "A", 1))
	require.True(t, s.AddGenre(1, "B", 2))
	s.ToggleGenreActive(1, 1)
	s.ToggleGenreActive(1, 2)

	ok, msg = s.ResetAllGenresActive(1)
	assert.True(t, ok)
	assert.Equal(t, "Все жанры (2) переведены в активное состояние", msg)
	titles, _ := s.GenresForPoll(1)
	assert.Len(t, titles, 2)

	ok, msg = s.DeleteGenre(1, 1)
	assert.True(t, ok)
	assert.Equal(t, "Удалил жанр", msg)
	assert.Equal(t, "1. B 🟢", s.ListGenres(1))
	assert.True(t, s.HasGenres(1))
}
