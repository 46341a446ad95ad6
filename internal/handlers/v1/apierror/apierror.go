// Package apierror maps domain errors to huma status errors.
package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
)

// From converts err into a huma error. Errors the caller can fix map to 4xx;
// anything else is a 500 carrying msg.
func From(err error, msg string) error {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrAmbiguousAccount),
		errors.Is(err, ledger.ErrDuplicateAccount),
		errors.Is(err, ledger.ErrInsufficientFunds):
		return huma.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidAccountName),
		errors.Is(err, ledger.ErrSameAccount):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, extractor.ErrExtractionEmpty):
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}
