package operator

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/operator/actions"
	"github.com/carson-networks/finance-bot/internal/storage"
)

// ErrActionPanicked wraps a panic raised inside an action's Perform.
var ErrActionPanicked = errors.New("ledger action panicked")

// Operator applies queued ledger actions, each inside its own storage write.
type Operator struct {
	storage *storage.Storage
	queue   <-chan ActionItem
}

func NewOperator(s *storage.Storage, queue <-chan ActionItem) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
	}
}

// Run applies items until the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.apply(item)}
	}
}

func (o *Operator) apply(item ActionItem) (err error) {
	logData := logging.GetLogData(item.ctx)
	stopTimer := logData.AddTiming("ledgerWriteMs")
	defer stopTimer()

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = writer.Rollback()
			err = fmt.Errorf("%w: %T: %v", ErrActionPanicked, item.action, r)
		}
	}()

	err = item.action.Perform(item.ctx, writer)
	switch {
	case errors.Is(err, actions.ErrNoChange):
		logData.AddData("ledgerChanged", false)
		return writer.Rollback()
	case err != nil:
		_ = writer.Rollback()
		return err
	}

	logData.AddData("ledgerChanged", true)
	return writer.Commit()
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
