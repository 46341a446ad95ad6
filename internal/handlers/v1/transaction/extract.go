package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
)

// ExtractBody is the request body for extracting transactions from text.
type ExtractBody struct {
	Text string `json:"text" minLength:"1" doc:"Bank notification or free text"`
}

// ExtractInput is the Huma input for extracting transactions.
type ExtractInput struct {
	Body ExtractBody
}

// Candidate is one transaction read from the text. Nothing is posted.
type Candidate struct {
	Kind          string `json:"kind" doc:"expense or income"`
	Amount        string `json:"amount" doc:"Decimal amount"`
	Date          string `json:"date" doc:"Transaction day, YYYY-MM-DD"`
	DateDefaulted bool   `json:"dateDefaulted" doc:"Set when the text carried no date and today was used"`
	Counterpart   string `json:"counterpart" doc:"Merchant, sender or recipient"`
	PaymentMethod string `json:"paymentMethod" doc:"Card scheme or channel"`
	CardFragment  string `json:"cardFragment,omitempty" doc:"Trailing card digits"`
	Category      string `json:"category" doc:"Category chosen by keyword rules"`
	Account       string `json:"account,omitempty" doc:"Account the candidate would post to, if one could be inferred"`
}

// ExtractResponse is the response body for extraction.
type ExtractResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// ExtractOutput is the Huma output for extraction.
type ExtractOutput struct {
	Body ExtractResponse
}

type transactionExtractor interface {
	Extract(ctx context.Context, text string) ([]extractor.ExtractedTransaction, error)
	InferAccount(tx extractor.ExtractedTransaction) string
}

// ExtractHandler handles POST /v1/extract.
type ExtractHandler struct {
	TransactionService transactionExtractor
}

func NewExtractHandler(svc transactionExtractor) *ExtractHandler {
	return &ExtractHandler{TransactionService: svc}
}

// Register registers the extract endpoint with the Huma API.
func (h *ExtractHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "extract-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/extract",
		Summary:     "Extract transactions from text",
		Description: "Parses a bank notification into transaction candidates without posting them.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ExtractHandler) handle(ctx context.Context, input *ExtractInput) (*ExtractOutput, error) {
	logData := logging.GetLogData(ctx)

	candidates, err := h.TransactionService.Extract(ctx, input.Body.Text)
	if err != nil {
		return nil, apierror.From(err, "failed to extract transactions")
	}
	logData.AddData("candidateCount", len(candidates))

	resp := ExtractResponse{Candidates: make([]Candidate, len(candidates))}
	for i, tx := range candidates {
		amount, _ := tx.Amount.Get()
		fragment, _ := tx.CardFragment.Get()
		resp.Candidates[i] = Candidate{
			Kind:          string(tx.Kind),
			Amount:        amount.String(),
			Date:          ledger.FormatDay(tx.Date),
			DateDefaulted: tx.DateDefaulted,
			Counterpart:   tx.Counterpart,
			PaymentMethod: tx.PaymentMethod,
			CardFragment:  fragment,
			Category:      tx.Category,
			Account:       h.TransactionService.InferAccount(tx),
		}
	}
	return &ExtractOutput{Body: resp}, nil
}
