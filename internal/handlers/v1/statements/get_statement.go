package statements

import (
	"context"
	"errors"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-bot/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/statement"
)

// GetStatementInput is the Huma input for a statement.
type GetStatementInput struct {
	Account string `query:"account" required:"true" minLength:"1" doc:"Account name or fragment"`
	From    string `query:"from" doc:"First day, YYYY-MM-DD; open when empty"`
	To      string `query:"to" doc:"Last day, YYYY-MM-DD; open when empty"`
}

// Line is one statement row.
type Line struct {
	Date        string `json:"date"`
	Kind        string `json:"kind" enum:"expense,income,transfer_out,transfer_in"`
	Description string `json:"description"`
	Counterpart string `json:"counterpart,omitempty" doc:"Other account of a transfer"`
	Amount      string `json:"amount" doc:"Signed effect on the balance"`
	Balance     string `json:"balance" doc:"Running balance after the line"`
}

// Totals are the sums over the window's lines.
type Totals struct {
	Income       string `json:"income"`
	Expenses     string `json:"expenses"`
	TransfersIn  string `json:"transfersIn"`
	TransfersOut string `json:"transfersOut"`
	Net          string `json:"net"`
}

// StatementResponse is the reconstructed statement.
type StatementResponse struct {
	Account       string `json:"account"`
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	Opening       string `json:"opening" doc:"Balance before the first entry ever posted"`
	Start         string `json:"start" doc:"Balance the window begins from"`
	RolledForward string `json:"rolledForward,omitempty" doc:"Last day rolled into start, when entries precede the window"`
	Lines         []Line `json:"lines"`
	Closing       string `json:"closing"`
	Totals        Totals `json:"totals"`
	Warning       string `json:"warning,omitempty" doc:"Set when the replayed history does not match the stored balance"`
}

// GetStatementOutput is the Huma output for a statement.
type GetStatementOutput struct {
	Body StatementResponse
}

type statementBuilder interface {
	Statement(ctx context.Context, accountText string, w ledger.Window) (*statement.Statement, error)
}

// GetStatementHandler handles GET /v1/statement.
type GetStatementHandler struct {
	StatementService statementBuilder
}

func NewGetStatementHandler(svc statementBuilder) *GetStatementHandler {
	return &GetStatementHandler{StatementService: svc}
}

// Register registers the statement endpoint with the Huma API.
func (h *GetStatementHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-statement",
		Method:      http.MethodGet,
		Path:        "/v1/statement",
		Summary:     "Account statement",
		Description: "Replays the account's transactions and transfers into a running-balance statement over an optional date window.",
		Tags:        []string{"Statements"},
	}, h.handle)
}

func parseWindow(input *GetStatementInput) (ledger.Window, error) {
	var w ledger.Window
	if input.From != "" {
		from, err := ledger.ParseDay(input.From)
		if err != nil {
			return w, huma.NewError(http.StatusBadRequest, "invalid from", err)
		}
		w.From = omit.From(from)
	}
	if input.To != "" {
		to, err := ledger.ParseDay(input.To)
		if err != nil {
			return w, huma.NewError(http.StatusBadRequest, "invalid to", err)
		}
		w.To = omit.From(to)
	}

	from, hasFrom := w.From.Get()
	to, hasTo := w.To.Get()
	if hasFrom && hasTo && to.Before(from) {
		return w, huma.NewError(http.StatusBadRequest, "to is before from")
	}
	return w, nil
}

func (h *GetStatementHandler) handle(ctx context.Context, input *GetStatementInput) (*GetStatementOutput, error) {
	logData := logging.GetLogData(ctx)

	w, err := parseWindow(input)
	if err != nil {
		return nil, err
	}

	st, err := h.StatementService.Statement(ctx, input.Account, w)
	var inconsistency *statement.InconsistencyError
	if err != nil && !errors.As(err, &inconsistency) {
		return nil, apierror.From(err, "failed to build statement")
	}
	logData.AddData("lineCount", len(st.Lines))

	resp := toResponse(st)
	if inconsistency != nil {
		resp.Warning = inconsistency.Error()
	}
	return &GetStatementOutput{Body: resp}, nil
}

func toResponse(st *statement.Statement) StatementResponse {
	resp := StatementResponse{
		Account: st.Account.Name,
		Opening: st.Opening.String(),
		Start:   st.Start.String(),
		Lines:   make([]Line, len(st.Lines)),
		Closing: st.Closing.String(),
		Totals: Totals{
			Income:       st.Totals.Income.String(),
			Expenses:     st.Totals.Expenses.String(),
			TransfersIn:  st.Totals.TransfersIn.String(),
			TransfersOut: st.Totals.TransfersOut.String(),
			Net:          st.Totals.Net().String(),
		},
	}
	if from, ok := st.Window.From.Get(); ok {
		resp.From = ledger.FormatDay(from)
	}
	if to, ok := st.Window.To.Get(); ok {
		resp.To = ledger.FormatDay(to)
	}
	if rolled, ok := st.RolledForwardDate.Get(); ok {
		resp.RolledForward = ledger.FormatDay(rolled)
	}
	for i, l := range st.Lines {
		resp.Lines[i] = Line{
			Date:        ledger.FormatDay(l.Date),
			Kind:        string(l.Kind),
			Description: l.Description,
			Counterpart: l.Counterpart,
			Amount:      l.Amount.String(),
			Balance:     l.Balance.String(),
		}
	}
	return resp
}
