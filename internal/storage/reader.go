package storage

import (
	"context"
	"fmt"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// Read returns the committed snapshot. Callers must treat it as read-only; it
// never changes after being returned.
func (s *Storage) Read() *ledger.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// Reload replaces the committed snapshot with the backend's content, picking
// up edits made to the store outside this process.
func (s *Storage) Reload(ctx context.Context) error {
	writer, err := s.Write(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Rollback() }()

	snapshot, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload ledger: %w", err)
	}
	s.swap(snapshot)
	return nil
}

func (s *Storage) swap(snapshot *ledger.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = snapshot
}
