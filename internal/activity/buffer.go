// Package activity coalesces "user was active" events in memory and writes
// them to storage in periodic batches.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookclub/internal/models"

	"go.uber.org/zap"
)

// Writer persists a batch of activity rows.
type Writer interface {
	UpsertUserActivityMany(rows []models.ActivityRow) (int, error)
}

type key struct {
	chatID int64
	userID int64
}

// Buffer is safe for concurrent producers. mu guards only the map and is
// never held while writing. flushMu serializes Flush with Forget so a removed
// member cannot be written back by a batch already in flight.
type Buffer struct {
	mu      sync.Mutex
	pending map[key]*string
	flushMu sync.Mutex

	writer   Writer
	interval time.Duration
	logger   *zap.Logger
	once     sync.Once
	done     chan struct{}
}

func NewBuffer(writer Writer, interval time.Duration, logger *zap.Logger) *Buffer {
	return &Buffer{
		pending:  make(map[key]*string),
		writer:   writer,
		interval: interval,
		logger:   logger,
	}
}

// Record marks userID active in chatID. A known username is never replaced by
// an empty one.
func (b *Buffer) Record(chatID, userID int64, username *string) {
	if username != nil && *username == "" {
		username = nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{chatID: chatID, userID: userID}
	if username != nil {
		name := *username
		b.pending[k] = &name
		return
	}
	if _, ok := b.pending[k]; !ok {
		b.pending[k] = nil
	}
}

// Forget drops a pending record for userID in chatID. It waits for a running
// flush, so a store delete issued after Forget is final.
func (b *Buffer) Forget(chatID, userID int64) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	delete(b.pending, key{chatID: chatID, userID: userID})
	b.mu.Unlock()
}

// Len reports how many (chat, user) pairs wait for the next flush.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush swaps the buffer out and writes it as one batch. On failure the rows
// go back into the buffer unless a newer record for the same pair exists.
func (b *Buffer) Flush() (int, error) {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	snapshot := b.pending
	if len(snapshot) == 0 {
		b.mu.Unlock()
		return 0, nil
	}
	b.pending = make(map[key]*string)
	b.mu.Unlock()

	rows := make([]models.ActivityRow, 0, len(snapshot))
	for k, username := range snapshot {
		rows = append(rows, models.ActivityRow{ChatID: k.chatID, UserID: k.userID, Username: username})
	}

	n, err := b.writer.UpsertUserActivityMany(rows)
	if err != nil {
		b.requeue(snapshot)
		return 0, fmt.Errorf("flush %d activity rows: %w", len(rows), err)
	}
	return n, nil
}

func (b *Buffer) requeue(snapshot map[key]*string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, username := range snapshot {
		current, ok := b.pending[k]
		switch {
		case !ok:
			b.pending[k] = username
		case current == nil && username != nil:
			b.pending[k] = username
		}
	}
}

// Start launches Run in a goroutine. Calls after the first are no-ops. The
// returned channel is closed once the loop has made its final flush.
func (b *Buffer) Start(ctx context.Context) <-chan struct{} {
	b.once.Do(func() {
		b.done = make(chan struct{})
		go func() {
			defer close(b.done)
			b.Run(ctx)
		}()
	})
	return b.done
}

// Run flushes every interval until ctx is cancelled, then flushes once more.
// A failed or panicking iteration is logged and the loop keeps going.
func (b *Buffer) Run(ctx context.Context) {
	b.logger.Info("Activity flush loop started.", zap.Duration("interval", b.interval))

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.flushOnce()
			b.logger.Info("Activity flush loop stopped.")
			return
		case <-ticker.C:
			b.flushOnce()
		}
	}
}

func (b *Buffer) flushOnce() {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Activity flush panicked", zap.Any("panic", r))
		}
	}()

	n, err := b.Flush()
	if err != nil {
		b.logger.Error("Failed to flush user activity", zap.Error(err))
		return
	}
	if n > 0 {
		b.logger.Debug("User activity flushed", zap.Int("rows", n))
	}
}
