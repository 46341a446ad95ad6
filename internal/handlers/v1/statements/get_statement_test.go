package statements

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/statement"
)

type mockStatementService struct {
	mock.Mock
}

func (m *mockStatementService) Statement(ctx context.Context, accountText string, w ledger.Window) (*statement.Statement, error) {
	args := m.Called(ctx, accountText, w)
	st, _ := args.Get(0).(*statement.Statement)
	return st, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockStatementService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewGetStatementHandler(svc).Register(api)
	return api
}

func day(d int) time.Time {
	return time.Date(2025, time.August, d, 0, 0, 0, 0, time.UTC)
}

func sampleStatement(w ledger.Window) *statement.Statement {
	return &statement.Statement{
		Account:           ledger.Account{Name: "🏛 Bank", Balance: decimal.NewFromInt(1300)},
		Window:            w,
		Opening:           decimal.NewFromInt(1000),
		Start:             decimal.NewFromInt(1500),
		RolledForwardDate: omit.From(day(1)),
		Lines: []statement.Line{
			{Date: day(3), Kind: statement.EntryExpense, Description: "food", Amount: decimal.NewFromInt(-200), Balance: decimal.NewFromInt(1300)},
		},
		Closing: decimal.NewFromInt(1300),
		Totals:  statement.Totals{Income: decimal.Zero, Expenses: decimal.NewFromInt(200), TransfersIn: decimal.Zero, TransfersOut: decimal.Zero},
	}
}

// -- parseWindow unit tests --

func TestParseWindow(t *testing.T) {
	w, err := parseWindow(&GetStatementInput{Account: "bank"})
	require.NoError(t, err)
	assert.False(t, w.From.IsValue())
	assert.False(t, w.To.IsValue())

	w, err = parseWindow(&GetStatementInput{Account: "bank", From: "2025-08-02", To: "2025-08-31"})
	require.NoError(t, err)
	from, _ := w.From.Get()
	assert.Equal(t, day(2), from)

	_, err = parseWindow(&GetStatementInput{Account: "bank", From: "2025-08-31", To: "2025-08-02"})
	assert.Error(t, err)

	_, err = parseWindow(&GetStatementInput{Account: "bank", From: "020825"})
	assert.Error(t, err)
}

// -- Statement HTTP tests --

func TestHTTP_GetStatement_Windowed(t *testing.T) {
	w := ledger.Window{From: omit.From(day(2)), To: omit.From(day(31))}
	svc := new(mockStatementService)
	svc.On("Statement", mock.Anything, "bank", w).Return(sampleStatement(w), nil)

	resp := newTestAPI(t, svc).Get("/v1/statement?account=bank&from=2025-08-02&to=2025-08-31")

	require.Equal(t, http.StatusOK, resp.Code)
	var body StatementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "🏛 Bank", body.Account)
	assert.Equal(t, "2025-08-02", body.From)
	assert.Equal(t, "2025-08-01", body.RolledForward)
	assert.Equal(t, "1500", body.Start)
	require.Len(t, body.Lines, 1)
	assert.Equal(t, "-200", body.Lines[0].Amount)
	assert.Equal(t, "-200", body.Totals.Net)
	assert.Empty(t, body.Warning)
	svc.AssertExpectations(t)
}

func TestHTTP_GetStatement_Inconsistent(t *testing.T) {
	svc := new(mockStatementService)
	svc.On("Statement", mock.Anything, "bank", ledger.Window{}).Return(sampleStatement(ledger.Window{}), &statement.InconsistencyError{
		Account:  "🏛 Bank",
		Replayed: decimal.NewFromInt(1300),
		Stored:   decimal.NewFromInt(1400),
	})

	resp := newTestAPI(t, svc).Get("/v1/statement?account=bank")

	require.Equal(t, http.StatusOK, resp.Code)
	var body StatementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Warning, "1400")
}

func TestHTTP_GetStatement_UnknownAccount(t *testing.T) {
	svc := new(mockStatementService)
	svc.On("Statement", mock.Anything, "wallet", ledger.Window{}).Return(nil, ledger.ErrAccountNotFound)

	resp := newTestAPI(t, svc).Get("/v1/statement?account=wallet")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_GetStatement_MissingAccount(t *testing.T) {
	svc := new(mockStatementService)

	resp := newTestAPI(t, svc).Get("/v1/statement")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "Statement")
}
