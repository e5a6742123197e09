package services

import (
	"context"
	"errors"
	"fmt"

	"ledger/src/auth"
	"ledger/src/utils"
)

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrAlreadyExists         = errors.New("account name already registered")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrAlreadyCashedOutToday = errors.New("already cashed out today")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnknownAsset          = errors.New("unknown asset")
	ErrUnknownCurrency       = errors.New("unknown currency")
	ErrStorageUnavailable    = errors.New("storage unavailable")

	errDomain = []error{
		ErrAccountNotFound, ErrAlreadyExists, ErrInsufficientFunds, ErrAlreadyCashedOutToday,
		ErrInvalidAmount, ErrInvalidInput, ErrUnknownAsset, ErrUnknownCurrency, ErrStorageUnavailable,
	}
)

// storageError marks err as a storage failure unless it already carries one
// of the ledger's own error kinds.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range errDomain {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// AsHTTPError turns ledger errors into HTTP errors. Timeouts pass through
// untouched so the handler can answer 504.
func AsHTTPError(err error) error {
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrUnknownAsset):
		return utils.NotFound(err.Error())
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrAlreadyCashedOutToday):
		return utils.Conflict(err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		return utils.UnprocessableEntity(err.Error())
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnknownCurrency):
		return utils.BadRequest(err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return utils.Unauthorized(err.Error())
	case errors.Is(err, ErrStorageUnavailable):
		return utils.ServiceUnavailable(ErrStorageUnavailable.Error())
	}
	return err
}
