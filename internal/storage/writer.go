package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

var ErrWriterClosed = errors.New("writer already committed or rolled back")

// Writer owns a private copy of the committed snapshot. Nothing it does is
// visible to readers until Commit succeeds.
type Writer struct {
	ctx      context.Context
	storage  *Storage
	Snapshot *ledger.Snapshot
	closed   bool
}

// Write waits for the write slot and returns a writer over a clone of the
// committed snapshot.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	select {
	case s.writeSlot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &Writer{
		ctx:      ctx,
		storage:  s,
		Snapshot: s.Read().Clone(),
	}, nil
}

// Commit flushes the snapshot through the backend and publishes it. On
// failure the committed snapshot is left as it was.
func (w *Writer) Commit() error {
	if w.closed {
		return ErrWriterClosed
	}
	defer w.release()

	if err := w.storage.backend.Replace(w.ctx, w.Snapshot); err != nil {
		w.storage.log.WithError(err).Error("Storage.Commit.Error")
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	w.storage.swap(w.Snapshot)
	return nil
}

// Rollback discards the writer's changes. It is safe to call after Commit.
func (w *Writer) Rollback() error {
	if w.closed {
		return nil
	}
	w.release()
	return nil
}

func (w *Writer) release() {
	w.closed = true
	<-w.storage.writeSlot
}
