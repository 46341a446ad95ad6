package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-bot/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/service"
)

// ListTransactionsCursor bundles position, limit and the ledger length seen on
// the first page so later pages stay put while new transactions are posted.
type ListTransactionsCursor struct {
	Position int `json:"position" doc:"Numeric offset position for the next page"`
	Limit    int `json:"limit" doc:"Page size used for this cursor"`
	Count    int `json:"count" doc:"Ledger length locked in from the first page"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Position int `query:"position" minimum:"0" doc:"Offset from the newest transaction"`
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
	Count    int `query:"count" minimum:"0" doc:"Ledger length from a previous cursor"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions, newest first"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

type transactionLister interface {
	ListTransactions(ctx context.Context, cursor *service.TransactionCursor) ([]ledger.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns a paginated list of transactions, newest first, using cursor-based pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput returns nil without any cursor field, letting
// the service use its defaults.
func parseListTransactionsInput(input *ListTransactionsInput) *service.TransactionCursor {
	if input.Position == 0 && input.Limit == 0 && input.Count == 0 {
		return nil
	}
	return &service.TransactionCursor{
		Position: input.Position,
		Limit:    input.Limit,
		Count:    input.Count,
	}
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("listTransactionsMs")
	transactions, nextCursor, err := h.TransactionService.ListTransactions(ctx, parseListTransactionsInput(input))
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to list transactions")
	}
	logData.AddData("transactionCount", len(transactions))

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = fromLedger(tx)
	}
	if nextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position: nextCursor.Position,
			Limit:    nextCursor.Limit,
			Count:    nextCursor.Count,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
