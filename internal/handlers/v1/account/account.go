package account

import (
	"github.com/carson-networks/finance-bot/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	Name           string `json:"name" doc:"Stored account name, marker included"`
	CanonicalName  string `json:"canonicalName" doc:"Name without the leading marker"`
	Type           string `json:"type" enum:"bank,credit_card,cash,debt,person,other" doc:"Account type"`
	Balance        string `json:"balance" doc:"Decimal balance"`
	AllowsNegative bool   `json:"allowsNegative" doc:"Whether transfers may take the balance below zero without confirmation"`
}

func fromLedger(a ledger.Account) Account {
	return Account{
		Name:           a.Name,
		CanonicalName:  a.CanonicalName(),
		Type:           string(a.Type),
		Balance:        a.Balance.String(),
		AllowsNegative: a.AllowsNegative(),
	}
}
