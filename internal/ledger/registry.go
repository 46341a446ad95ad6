package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MatchMode controls how Lookup treats several accounts matching at the same
// priority tier.
type MatchMode int

const (
	// MatchFirst returns the first account in table order.
	MatchFirst MatchMode = iota
	// MatchStrict fails with an *AmbiguousAccountError.
	MatchStrict
)

type matchInput struct {
	canonical string
	raw       string
	digits    []string
}

type matchTier func(in matchInput, a Account) bool

// matchTiers are tried in order; the first tier with any hit decides.
var matchTiers = []matchTier{
	// exact, case-insensitive, marker stripped
	func(in matchInput, a Account) bool {
		return in.canonical != "" && strings.ToLower(a.CanonicalName()) == in.canonical
	},
	// substring of the canonical name
	func(in matchInput, a Account) bool {
		return in.canonical != "" && strings.Contains(strings.ToLower(a.CanonicalName()), in.canonical)
	},
	// substring of a single canonical token; always implied by the tier above,
	// so it never decides on its own
	func(in matchInput, a Account) bool {
		if in.canonical == "" {
			return false
		}
		for _, token := range strings.Fields(strings.ToLower(a.CanonicalName())) {
			if strings.Contains(token, in.canonical) {
				return true
			}
		}
		return false
	},
	// substring of the raw name, marker included
	func(in matchInput, a Account) bool {
		return in.raw != "" && strings.Contains(strings.ToLower(a.Name), in.raw)
	},
	// digits of the input against digit runs embedded in the name
	func(in matchInput, a Account) bool {
		for _, run := range digitRuns(NormalizeDigits(a.Name)) {
			for _, d := range in.digits {
				if run == d || (len(d) >= 3 && strings.HasSuffix(run, d)) {
					return true
				}
			}
		}
		return false
	},
}

// Account returns the account with exactly this stored name.
func (s *Snapshot) Account(name string) (Account, bool) {
	if idx := s.indexOf(name); idx >= 0 {
		return s.Accounts[idx], true
	}
	return Account{}, false
}

func (s *Snapshot) indexOf(name string) int {
	for i := range s.Accounts {
		if s.Accounts[i].Name == name {
			return i
		}
	}
	return -1
}

// Candidates returns every account matching text at the highest-priority
// tier that matches anything, in table order.
func (s *Snapshot) Candidates(text string) []Account {
	normalized := NormalizeDigits(strings.TrimSpace(text))
	in := matchInput{
		canonical: strings.ToLower(CanonicalName(normalized)),
		raw:       strings.ToLower(normalized),
		digits:    digitRuns(normalized),
	}
	if in.canonical == "" && in.raw == "" {
		return nil
	}
	for _, tier := range matchTiers {
		var hits []Account
		for _, a := range s.Accounts {
			if tier(in, a) {
				hits = append(hits, a)
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}

// Resolve finds an account from free user text; the first match wins.
func (s *Snapshot) Resolve(text string) (Account, error) {
	return s.Lookup(text, MatchFirst)
}

// Lookup finds an account from free user text using the given match mode.
func (s *Snapshot) Lookup(text string, mode MatchMode) (Account, error) {
	hits := s.Candidates(text)
	if len(hits) == 0 {
		return Account{}, ErrAccountNotFound
	}
	if mode == MatchStrict && len(hits) > 1 {
		names := make([]string, len(hits))
		for i, a := range hits {
			names[i] = a.CanonicalName()
		}
		return Account{}, &AmbiguousAccountError{Input: text, Candidates: names}
	}
	return hits[0], nil
}

// Register adds a new account. Names must be unique.
func (s *Snapshot) Register(name string, t AccountType, balance decimal.Decimal) (Account, error) {
	name = strings.TrimSpace(name)
	if CanonicalName(name) == "" {
		return Account{}, ErrInvalidAccountName
	}
	if s.indexOf(name) >= 0 {
		return Account{}, ErrDuplicateAccount
	}
	a := Account{Name: name, Type: t, Balance: balance}
	s.Accounts = append(s.Accounts, a)
	return a, nil
}

// Total sums every account balance.
func (s *Snapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// Budget is the total balance less a fixed baseline.
func (s *Snapshot) Budget(baseline decimal.Decimal) decimal.Decimal {
	return s.Total().Sub(baseline)
}
