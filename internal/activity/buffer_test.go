package activity

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	mu      sync.Mutex
	batches [][]models.ActivityRow
	err     error
	panics  bool
}

func (w *recordingWriter) UpsertUserActivityMany(rows []models.ActivityRow) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panics {
		panic("boom")
	}
	if w.err != nil {
		return 0, w.err
	}
	w.batches = append(w.batches, rows)
	return len(rows), nil
}

func (w *recordingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.batches)
}

func strPtr(s string) *string { return &s }

func TestBuffer_RecordKeepsKnownUsername(t *testing.T) {
	w := &recordingWriter{}
	b := NewBuffer(w, time.Minute, zap.NewNop())

	b.Record(1, 9, strPtr("a"))
	b.Record(1, 9, nil)
	b.Record(1, 9, strPtr(""))
	b.Record(1, 10, nil)

	n, err := b.Flush()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, w.batches, 1)

	byUser := map[int64]*string{}
	for _, row := range w.batches[0] {
		byUser[row.UserID] = row.Username
	}
	require.NotNil(t, byUser[9])
	assert.Equal(t, "a", *byUser[9])
	assert.Nil(t, byUser[10])
	assert.Zero(t, b.Len())
}

func TestBuffer_EmptyFlushDoesNothing(t *testing.T) {
	w := &recordingWriter{}
	b := NewBuffer(w, time.Minute, zap.NewNop())

	n, err := b.Flush()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, w.count())
}

func TestBuffer_FailedFlushRequeues(t *testing.T) {
	w := &recordingWriter{err: errors.New("disk full")}
	b := NewBuffer(w, time.Minute, zap.NewNop())
	b.Record(1, 9, strPtr("old"))

	_, err := b.Flush()
	require.Error(t, err)
	assert.Equal(t, 1, b.Len())

	b.Record(1, 9, strPtr("new"))
	w.err = nil
	_, err = b.Flush()
	require.NoError(t, err)
	require.Len(t, w.batches, 1)
	assert.Equal(t, "new", *w.batches[0][0].Username)
}

func TestBuffer_RunSurvivesPanicsAndFlushesOnStop(t *testing.T) {
	w := &recordingWriter{panics: true}
	b := NewBuffer(w, 5*time.Millisecond, zap.NewNop())
	b.Record(1, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	w.mu.Lock()
	w.panics = false
	w.mu.Unlock()
	b.Record(1, 2, nil)

	require.Eventually(t, func() bool { return w.count() > 0 }, time.Second, 5*time.Millisecond)

	b.Record(1, 3, nil)
	cancel()
	<-done
	assert.Zero(t, b.Len(), "final flush on shutdown")
}

func TestBuffer_StartIsIdempotent(t *testing.T) {
	w := &recordingWriter{}
	b := NewBuffer(w, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	first := b.Start(ctx)
	second := b.Start(ctx)
	require.Equal(t, first, second)
	b.Record(1, 1, nil)
	cancel()

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("flush loop did not stop")
	}
	assert.Equal(t, 1, w.count())
}

func TestBuffer_FlushIntoSQLite(t *testing.T) {
	logger := zap.NewNop()
	db, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "bot.sqlite3"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.MigrateDB(db, logger))
	repo := repository.NewUserActivityRepository(db, logger)

	b := NewBuffer(repo, time.Minute, logger)
	b.Record(1, 9, strPtr("a"))
	b.Record(1, 9, nil)
	_, err = b.Flush()
	require.NoError(t, err)

	users := repo.GetUsersForChat(1, 0)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Username)
	assert.Equal(t, "a", *users[0].Username)
	assert.NotNil(t, users[0].LastActivityAt)
}

func TestBuffer_ForgetDropsPendingRecord(t *testing.T) {
	w := &recordingWriter{}
	b := NewBuffer(w, time.Minute, zap.NewNop())
	b.Record(1, 9, strPtr("a"))
	b.Record(1, 10, nil)

	b.Forget(1, 9)
	b.Forget(2, 9)

	_, err := b.Flush()
	require.NoError(t, err)
	require.Len(t, w.batches, 1)
	require.Len(t, w.batches[0], 1)
	assert.Equal(t, int64(10), w.batches[0][0].UserID)
}

func TestBuffer_ForgetAfterFailedFlush(t *testing.T) {
	w := &recordingWriter{err: errors.New("locked")}
	b := NewBuffer(w, time.Minute, zap.NewNop())
	b.Record(1, 9, nil)
	_, err := b.Flush()
	require.Error(t, err)

	b.Forget(1, 9)
	assert.Zero(t, b.Len())
}

type blockingWriter struct {
	entered chan struct{}
	release chan struct{}
}

func (w *blockingWriter) UpsertUserActivityMany(rows []models.ActivityRow) (int, error) {
	close(w.entered)
	<-w.release
	return len(rows), nil
}

func TestBuffer_ForgetWaitsForRunningFlush(t *testing.T) {
	w := &blockingWriter{entered: make(chan struct{}), release: make(chan struct{})}
	b := NewBuffer(w, time.Minute, zap.NewNop())
	b.Record(1, 9, nil)

	go func() { _, _ = b.Flush() }()
	<-w.entered

	forgotten := make(chan struct{})
	go func() {
		b.Forget(1, 9)
		close(forgotten)
	}()

	select {
	case <-forgotten:
		t.Fatal("Forget returned while a batch was being written")
	case <-time.After(20 * time.Millisecond):
	}

	close(w.release)
	select {
	case <-forgotten:
	case <-time.After(time.Second):
		t.Fatal("Forget did not return after the flush")
	}
}
