package storage

import (
	"context"
	"sync"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// MemoryBackend keeps the tables in process memory.
type MemoryBackend struct {
	mu       sync.Mutex
	snapshot *ledger.Snapshot
	replaces int
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend(initial *ledger.Snapshot) *MemoryBackend {
	if initial == nil {
		initial = ledger.NewSnapshot()
	}
	return &MemoryBackend{snapshot: initial.Clone()}
}

func (m *MemoryBackend) Load(_ context.Context) (*ledger.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Clone(), nil
}

func (m *MemoryBackend) Replace(_ context.Context, snapshot *ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot.Clone()
	m.replaces++
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

// Replaces counts successful flushes.
func (m *MemoryBackend) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaces
}
