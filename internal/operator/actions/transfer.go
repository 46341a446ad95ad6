package actions

import (
	"context"
	"time"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/storage"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// RequestTransfer evaluates a transfer against the writer's snapshot so the
// decision and the posting see the same balances.
type RequestTransfer struct {
	Request transfer.Request
	Mode    ledger.MatchMode
	Now     time.Time

	Outcome transfer.Outcome

	IAction
}

func (r *RequestTransfer) Perform(_ context.Context, writer *storage.Writer) error {
	r.Outcome = transfer.Evaluate(writer.Snapshot, r.Request, r.Mode, r.Now)
	if r.Outcome.State != transfer.StateExecuted {
		return ErrNoChange
	}
	return nil
}

// ConfirmTransfer resolves a pending transfer with the user's reply.
type ConfirmTransfer struct {
	Pending transfer.Pending
	Reply   string
	Policy  transfer.Policy

	Outcome transfer.Outcome

	IAction
}

func (c *ConfirmTransfer) Perform(_ context.Context, writer *storage.Writer) error {
	c.Outcome = transfer.Confirm(writer.Snapshot, c.Pending, c.Reply, c.Policy)
	if c.Outcome.State != transfer.StateExecuted {
		return ErrNoChange
	}
	return nil
}
