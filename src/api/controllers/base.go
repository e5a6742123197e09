package controllers

import (
	"ledger/src/auth"
	"ledger/src/services"
)

type Controller struct {
	Ledger *services.Ledger
	Tokens *auth.Tokens
}

func NewController(ledger *services.Ledger, tokens *auth.Tokens) *Controller {
	return &Controller{Ledger: ledger, Tokens: tokens}
}

func translateError(err error) error {
	return services.AsHTTPError(err)
}

var (
	_ AccountsControllerI = (*Controller)(nil)
	_ LedgerControllerI   = (*Controller)(nil)
)
