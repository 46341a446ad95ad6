package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name    string `json:"name" minLength:"1" doc:"Account name, optionally starting with an emoji marker"`
	Type    string `json:"type" doc:"Account type; English or Arabic synonyms accepted, unknown maps to other"`
	Balance string `json:"balance,omitempty" doc:"Initial balance (e.g. '0' or '-1000'), defaults to 0"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

type accountCreator interface {
	CreateAccount(ctx context.Context, name string, t ledger.AccountType, balance decimal.Decimal) (ledger.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Registers a new account with a unique name, a type and an initial balance.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (ledger.AccountType, decimal.Decimal, error) {
	balanceStr := input.Body.Balance
	if balanceStr == "" {
		balanceStr = "0"
	}
	balance, err := decimal.NewFromString(ledger.NormalizeDigits(balanceStr))
	if err != nil {
		return "", decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid balance", err)
	}

	accountType, _ := ledger.ParseAccountType(input.Body.Type)
	return accountType, balance, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	accountType, balance, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createAccountMs")
	created, err := h.AccountService.CreateAccount(ctx, input.Body.Name, accountType, balance)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to create account")
	}

	logData.AddData("account", created.Name)

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(created),
	}, nil
}
