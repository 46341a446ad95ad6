package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/service"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, name string, t ledger.AccountType, balance decimal.Decimal) (ledger.Account, error) {
	args := m.Called(ctx, name, t, balance)
	return args.Get(0).(ledger.Account), args.Error(1)
}

func (m *mockAccountService) ListAccounts(ctx context.Context, cursor *service.AccountCursor) ([]ledger.Account, *service.AccountCursor, error) {
	args := m.Called(ctx, cursor)
	accounts, _ := args.Get(0).([]ledger.Account)
	next, _ := args.Get(1).(*service.AccountCursor)
	return accounts, next, args.Error(2)
}

func (m *mockAccountService) Overview(ctx context.Context) service.Overview {
	args := m.Called(ctx)
	return args.Get(0).(service.Overview)
}

func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateAccountHandler(svc).Register(api)
	NewListAccountsHandler(svc).Register(api)
	return api
}

func decimalEq(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString(want))
	})
}

// -- parseCreateAccountInput unit tests --

func TestParseCreateAccountInput_Defaults(t *testing.T) {
	accountType, balance, err := parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{Name: "Wallet"}})

	require.NoError(t, err)
	assert.Equal(t, ledger.AccountTypeOther, accountType)
	assert.True(t, balance.IsZero())
}

func TestParseCreateAccountInput_ArabicInput(t *testing.T) {
	accountType, balance, err := parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{
		Name: "بطاقة", Type: "بطاقة ائتمان", Balance: "-١٠٠٠",
	}})

	require.NoError(t, err)
	assert.Equal(t, ledger.AccountTypeCreditCard, accountType)
	assert.True(t, balance.Equal(decimal.RequireFromString("-1000")))
}

func TestParseCreateAccountInput_InvalidBalance(t *testing.T) {
	_, _, err := parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{Name: "x", Balance: "lots"}})
	assert.Error(t, err)
}

// -- Create account HTTP tests --

func TestHTTP_CreateAccount_Success(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, "🏦 Riyad Bank", ledger.AccountTypeBank, decimalEq("5000")).
		Return(ledger.Account{Name: "🏦 Riyad Bank", Type: ledger.AccountTypeBank, Balance: decimal.RequireFromString("5000")}, nil)

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{Name: "🏦 Riyad Bank", Type: "bank", Balance: "5000"})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Riyad Bank", body.CanonicalName)
	assert.Equal(t, "bank", body.Type)
	assert.Equal(t, "5000", body.Balance)
	assert.False(t, body.AllowsNegative)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_Duplicate(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, "Cash", ledger.AccountTypeCash, mock.Anything).
		Return(ledger.Account{}, ledger.ErrDuplicateAccount)

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{Name: "Cash", Type: "cash"})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_CreateAccount_EmptyName(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{Name: "", Type: "cash"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_ServiceError(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ledger.Account{}, errors.New("workbook locked"))

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{Name: "Cash"})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

// -- List accounts HTTP tests --

func TestHTTP_ListAccounts_FirstPage(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, (*service.AccountCursor)(nil)).
		Return([]ledger.Account{
			{Name: "💵 Cash", Type: ledger.AccountTypeCash, Balance: decimal.RequireFromString("2000")},
			{Name: "💳 Visa", Type: ledger.AccountTypeCreditCard, Balance: decimal.RequireFromString("-50.5")},
		}, &service.AccountCursor{Position: 2, Limit: 2}, nil)
	svc.On("Overview", mock.Anything).Return(service.Overview{
		Total:  decimal.RequireFromString("1949.5"),
		Budget: decimal.RequireFromString("949.5"),
	})

	resp := newTestAPI(t, svc).Get("/v1/accounts")

	require.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Accounts, 2)
	assert.Equal(t, "Cash", body.Accounts[0].CanonicalName)
	assert.True(t, body.Accounts[1].AllowsNegative)
	assert.Equal(t, "-50.5", body.Accounts[1].Balance)
	assert.Equal(t, "1949.5", body.Total)
	assert.Equal(t, "949.5", body.Budget)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 2, body.NextCursor.Position)
	svc.AssertExpectations(t)
}

func TestHTTP_ListAccounts_WithCursor(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, mock.MatchedBy(func(c *service.AccountCursor) bool {
		return c != nil && c.Position == 2 && c.Limit == 2
	})).Return(([]ledger.Account)(nil), (*service.AccountCursor)(nil), nil)
	svc.On("Overview", mock.Anything).Return(service.Overview{})

	resp := newTestAPI(t, svc).Get("/v1/accounts?position=2&limit=2")

	require.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Accounts)
	assert.Nil(t, body.NextCursor)
	svc.AssertExpectations(t)
}

func TestHTTP_ListAccounts_LimitTooLarge(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Get("/v1/accounts?limit=500")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "ListAccounts")
}
