package transfers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// CreateTransferBody is the request body for a transfer.
type CreateTransferBody struct {
	From   string `json:"from" minLength:"1" doc:"Source account name or fragment"`
	To     string `json:"to" minLength:"1" doc:"Destination account name or fragment"`
	Amount string `json:"amount" minLength:"1" doc:"Positive decimal amount, Arabic digits accepted"`
}

// CreateTransferInput is the Huma input for a transfer.
type CreateTransferInput struct {
	Body CreateTransferBody
}

// TransferResponse reports where the workflow left the transfer.
type TransferResponse struct {
	State       string `json:"state" enum:"executed,pending_confirmation" doc:"executed, or pending_confirmation when the source would go negative"`
	From        string `json:"from" doc:"Resolved source account"`
	To          string `json:"to" doc:"Resolved destination account"`
	Amount      string `json:"amount" doc:"Transferred amount"`
	FromBalance string `json:"fromBalance" doc:"Source balance after the transfer, or current balance while pending"`
	ToBalance   string `json:"toBalance" doc:"Destination balance after the transfer, or current balance while pending"`
	Projected   string `json:"projected,omitempty" doc:"Source balance the transfer would leave; set while pending"`
}

// CreateTransferOutput is the Huma output for a transfer.
type CreateTransferOutput struct {
	Status int
	Body   TransferResponse
}

type transferRequester interface {
	Request(ctx context.Context, from, to string, amount decimal.Decimal) (transfer.Outcome, error)
}

// CreateTransferHandler handles POST /v1/transfer. Transfers that need
// confirmation are reported and nothing is staged; to go ahead the transfer
// has to be entered again through the chat, which asks for confirmation.
type CreateTransferHandler struct {
	TransferService transferRequester
}

func NewCreateTransferHandler(svc transferRequester) *CreateTransferHandler {
	return &CreateTransferHandler{TransferService: svc}
}

// Register registers the transfer endpoint with the Huma API.
func (h *CreateTransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transfer",
		Method:      http.MethodPost,
		Path:        "/v1/transfer",
		Summary:     "Transfer between accounts",
		Description: "Moves money between two accounts. Transfers that would take a credit or debt account negative are reported as pending (202) and nothing is moved or staged. To go ahead, enter the transfer again in chat, where it can be confirmed.",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func (h *CreateTransferHandler) handle(ctx context.Context, input *CreateTransferInput) (*CreateTransferOutput, error) {
	logData := logging.GetLogData(ctx)

	amount, err := decimal.NewFromString(ledger.NormalizeDigits(input.Body.Amount))
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	stopTimer := logData.AddTiming("transferMs")
	out, err := h.TransferService.Request(ctx, input.Body.From, input.Body.To, amount)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to transfer")
	}
	logData.AddData("transferState", string(out.State))

	switch out.State {
	case transfer.StateExecuted:
		return &CreateTransferOutput{
			Status: http.StatusCreated,
			Body: TransferResponse{
				State:       string(out.State),
				From:        out.From.Name,
				To:          out.To.Name,
				Amount:      out.Amount.String(),
				FromBalance: out.From.Balance.String(),
				ToBalance:   out.To.Balance.String(),
			},
		}, nil
	case transfer.StatePendingConfirmation:
		p := out.Pending
		return &CreateTransferOutput{
			Status: http.StatusAccepted,
			Body: TransferResponse{
				State:       string(out.State),
				From:        p.From,
				To:          p.To,
				Amount:      p.Amount.String(),
				FromBalance: p.StagedFromBalance.String(),
				ToBalance:   p.StagedToBalance.String(),
				Projected:   p.Projected().String(),
			},
		}, nil
	}

	if out.Err == nil {
		out.Err = errors.New("transfer ended in state " + string(out.State))
	}
	return nil, apierror.From(out.Err, "failed to transfer")
}
