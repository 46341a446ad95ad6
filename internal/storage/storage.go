package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// Backend persists the three ledger tables as a whole.
//
//go:generate mockery --name Backend --output mock_Backend.go
type Backend interface {
	Load(ctx context.Context) (*ledger.Snapshot, error)
	Replace(ctx context.Context, snapshot *ledger.Snapshot) error
	Close() error
}

// Storage holds the committed snapshot and hands out one writer at a time.
type Storage struct {
	backend Backend
	log     *logrus.Logger

	mu        sync.RWMutex
	committed *ledger.Snapshot

	// writeSlot is a one-slot semaphore so waiting writers can give up on ctx.
	writeSlot chan struct{}
}

// Open loads the backend and seeds the given accounts when it holds none.
func Open(ctx context.Context, backend Backend, seed []ledger.Account, log *logrus.Logger) (*Storage, error) {
	snapshot, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	if len(snapshot.Accounts) == 0 && len(seed) > 0 {
		for _, a := range seed {
			if _, err := snapshot.Register(a.Name, a.Type, a.Balance); err != nil {
				return nil, fmt.Errorf("failed to seed account %q: %w", a.Name, err)
			}
		}
		if err := backend.Replace(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to write seeded ledger: %w", err)
		}
		log.WithField("accounts", len(seed)).Info("Storage.Seeded")
	}

	return &Storage{
		backend:   backend,
		log:       log,
		committed: snapshot,
		writeSlot: make(chan struct{}, 1),
	}, nil
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}
