package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/operator/actions"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// TransferService drives the transfer workflow through the posting queue.
type TransferService struct {
	proc Processor
	opts Options
	log  *logrus.Logger
}

// NewTransferService creates a new TransferService.
func NewTransferService(proc Processor, opts Options, log *logrus.Logger) *TransferService {
	return &TransferService{proc: proc, opts: opts, log: log}
}

// Request evaluates a transfer typed by the user. The returned error is only
// set when the queue or the store failed; workflow rejections are reported
// in the outcome.
func (s *TransferService) Request(ctx context.Context, from, to string, amount decimal.Decimal) (transfer.Outcome, error) {
	now := s.opts.now()
	action := &actions.RequestTransfer{
		Request: transfer.Request{
			From:   from,
			To:     to,
			Amount: amount,
			Date:   ledger.Day(now),
		},
		Mode: s.opts.Mode,
		Now:  now,
	}
	if err := s.proc.Process(ctx, action); err != nil {
		return transfer.Outcome{}, err
	}

	logging.GetLogData(ctx).AddData("transferState", string(action.Outcome.State))
	return action.Outcome, nil
}

// Confirm resolves a pending transfer with the user's reply. A nil pending
// fails with transfer.ErrNotPending.
func (s *TransferService) Confirm(ctx context.Context, pending *transfer.Pending, reply string) (transfer.Outcome, error) {
	if pending == nil {
		return transfer.Outcome{}, transfer.ErrNotPending
	}
	action := &actions.ConfirmTransfer{
		Pending: *pending,
		Reply:   reply,
		Policy:  s.opts.Policy,
	}
	if err := s.proc.Process(ctx, action); err != nil {
		return transfer.Outcome{}, err
	}

	if action.Outcome.Drifted {
		s.log.WithFields(logrus.Fields{
			"pendingID":         pending.ID.String(),
			"from":              pending.From,
			"stagedFromBalance": pending.StagedFromBalance.String(),
			"fromBalance":       action.Outcome.From.Balance.Add(pending.Amount).String(),
		}).Warn("Transfer.Confirm.BalanceDrift")
	}

	logging.GetLogData(ctx).AddData("transferState", string(action.Outcome.State))
	return action.Outcome, nil
}

// Cancel discards a pending transfer. It never touches the ledger.
func (s *TransferService) Cancel(pending transfer.Pending) transfer.Outcome {
	return transfer.Cancel(pending)
}

// Policy is the confirmation policy in force.
func (s *TransferService) Policy() transfer.Policy {
	return s.opts.Policy
}
