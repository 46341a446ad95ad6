package transaction

import (
	"github.com/carson-networks/finance-bot/internal/ledger"
)

// Transaction is the API response model for a posted transaction.
type Transaction struct {
	Date        string `json:"date" doc:"Posting day, YYYY-MM-DD"`
	Kind        string `json:"kind" enum:"expense,income" doc:"Transaction direction"`
	Amount      string `json:"amount" doc:"Positive decimal amount"`
	Account     string `json:"account" doc:"Stored account name"`
	Label       string `json:"label" doc:"Category for expenses, source for income"`
	Description string `json:"description,omitempty" doc:"Free-text description"`
}

func fromLedger(tx ledger.Transaction) Transaction {
	return Transaction{
		Date:        ledger.FormatDay(tx.Date),
		Kind:        string(tx.Kind),
		Amount:      tx.Amount.String(),
		Account:     tx.Account,
		Label:       tx.Label,
		Description: tx.Description,
	}
}
