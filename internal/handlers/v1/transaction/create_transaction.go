package transaction

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/service"
)

// CreateTransactionBody is the request body for posting a transaction.
type CreateTransactionBody struct {
	Kind        string `json:"kind" minLength:"1" doc:"expense or income, Arabic names accepted"`
	Account     string `json:"account" minLength:"1" doc:"Account name or any fragment that resolves to one"`
	Amount      string `json:"amount" minLength:"1" doc:"Positive decimal amount, Arabic digits accepted"`
	Label       string `json:"label" minLength:"1" doc:"Category for expenses, source for income"`
	Description string `json:"description,omitempty" doc:"Free-text description"`
	Date        string `json:"date,omitempty" doc:"Posting day, YYYY-MM-DD; defaults to today"`
}

// CreateTransactionInput is the Huma input for posting a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the posted transaction and its effect.
type CreateTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
	Balance     string      `json:"balance" doc:"Account balance after posting"`
	Budget      string      `json:"budget" doc:"Ledger budget after posting"`
}

// CreateTransactionOutput is the Huma output for posting a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

type transactionPoster interface {
	Post(ctx context.Context, req service.PostRequest) (*service.Posted, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionPoster
}

func NewCreateTransactionHandler(svc transactionPoster) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Post an expense or income",
		Description: "Resolves the account, applies the amount to its balance and appends the transaction to the ledger.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.PostRequest, error) {
	kind, ok := ledger.ParseKind(input.Body.Kind)
	if !ok {
		return service.PostRequest{}, huma.NewError(http.StatusBadRequest, "kind must be expense or income")
	}

	amount, err := decimal.NewFromString(ledger.NormalizeDigits(input.Body.Amount))
	if err != nil {
		return service.PostRequest{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	req := service.PostRequest{
		Kind:        kind,
		AccountText: input.Body.Account,
		Amount:      amount,
		Label:       input.Body.Label,
		Description: input.Body.Description,
	}
	if input.Body.Date != "" {
		date, err := ledger.ParseDay(input.Body.Date)
		if err != nil {
			return service.PostRequest{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		req.Date = omit.From(date)
	}
	return req, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	req, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createTransactionMs")
	posted, err := h.TransactionService.Post(ctx, req)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to post transaction")
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body: CreateTransactionResponse{
			Transaction: fromLedger(posted.Transaction),
			Balance:     posted.Account.Balance.String(),
			Budget:      posted.Budget.String(),
		},
	}, nil
}
