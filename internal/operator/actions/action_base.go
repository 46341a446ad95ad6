package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-bot/internal/storage"
)

// ErrNoChange tells the operator the action decided not to mutate anything;
// the writer is rolled back and the caller sees success.
var ErrNoChange = errors.New("action made no change")

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
