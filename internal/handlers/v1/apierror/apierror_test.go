package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
)

func TestFrom_StatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ledger.ErrAccountNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("post: %w", ledger.ErrAccountNotFound), http.StatusNotFound},
		{"ambiguous", &ledger.AmbiguousAccountError{Input: "a", Candidates: []string{"A1", "A2"}}, http.StatusConflict},
		{"duplicate", ledger.ErrDuplicateAccount, http.StatusConflict},
		{"insufficient", &ledger.InsufficientFundsError{Account: "Cash", Balance: decimal.NewFromInt(1), Amount: decimal.NewFromInt(2)}, http.StatusConflict},
		{"invalid amount", ledger.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid name", ledger.ErrInvalidAccountName, http.StatusBadRequest},
		{"same account", ledger.ErrSameAccount, http.StatusBadRequest},
		{"nothing extracted", extractor.ErrExtractionEmpty, http.StatusUnprocessableEntity},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var se huma.StatusError
			require.True(t, errors.As(From(tc.err, "failed"), &se))
			assert.Equal(t, tc.want, se.GetStatus())
		})
	}
}
