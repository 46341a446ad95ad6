package ledger

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// AccountType is the kind of balance bucket an account represents.
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeCash       AccountType = "cash"
	AccountTypeDebt       AccountType = "debt"
	AccountTypePerson     AccountType = "person"
	AccountTypeOther      AccountType = "other"
)

// AccountTypes lists every known account type in display order.
var AccountTypes = []AccountType{
	AccountTypeBank,
	AccountTypeCreditCard,
	AccountTypeCash,
	AccountTypeDebt,
	AccountTypePerson,
	AccountTypeOther,
}

var accountTypeSynonyms = map[string]AccountType{
	"bank":          AccountTypeBank,
	"بنك":           AccountTypeBank,
	"credit_card":   AccountTypeCreditCard,
	"credit card":   AccountTypeCreditCard,
	"credit":        AccountTypeCreditCard,
	"card":          AccountTypeCreditCard,
	"بطاقة ائتمان":  AccountTypeCreditCard,
	"بطاقة":         AccountTypeCreditCard,
	"cash":          AccountTypeCash,
	"نقدي":          AccountTypeCash,
	"نقد":           AccountTypeCash,
	"debt":          AccountTypeDebt,
	"loan":          AccountTypeDebt,
	"دين":           AccountTypeDebt,
	"ديون":          AccountTypeDebt,
	"قرض":           AccountTypeDebt,
	"person":        AccountTypePerson,
	"people":        AccountTypePerson,
	"أشخاص":         AccountTypePerson,
	"شخص":           AccountTypePerson,
	"other":         AccountTypeOther,
	"أخرى":          AccountTypeOther,
}

// ParseAccountType maps user or stored text to an AccountType. Unknown text
// maps to AccountTypeOther and ok=false.
func ParseAccountType(s string) (AccountType, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if t, ok := accountTypeSynonyms[key]; ok {
		return t, true
	}
	return AccountTypeOther, false
}

// negativeKeywords mark an account name as debt or credit related.
var negativeKeywords = []string{
	"debt", "credit", "loan", "owed", "payable",
	"دين", "ديون", "قرض", "ائتمان", "مستحق", "مدين",
}

// Account is a named balance bucket.
type Account struct {
	Name    string
	Type    AccountType
	Balance decimal.Decimal
}

// CanonicalName returns the account name without its decorative marker.
func (a Account) CanonicalName() string {
	return CanonicalName(a.Name)
}

// AllowsNegative reports whether the account may be driven below zero.
func (a Account) AllowsNegative() bool {
	return AllowsNegative(a)
}

// AllowsNegative is the negative-balance policy: debt and credit card accounts,
// and accounts whose canonical name carries a debt or credit keyword.
func AllowsNegative(a Account) bool {
	if a.Type == AccountTypeDebt || a.Type == AccountTypeCreditCard {
		return true
	}
	name := strings.ToLower(a.CanonicalName())
	for _, kw := range negativeKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

var markerRemover = runes.Remove(runes.Predicate(func(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_')
}))

// CanonicalName strips markers (emoji, symbols, punctuation) from a raw
// account name and collapses whitespace.
func CanonicalName(raw string) string {
	cleaned, _, err := transform.String(markerRemover, raw)
	if err != nil {
		cleaned = raw
	}
	return strings.Join(strings.Fields(cleaned), " ")
}
