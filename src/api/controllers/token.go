package controllers

import (
	"context"
	"errors"

	"ledger/src/auth"
	"ledger/src/schemas"
	"ledger/src/services"
)

// PostToken checks the credentials and issues a session token.
func (c *Controller) PostToken(ctx context.Context, name, password string) (*schemas.TokenResponse, error) {
	account, err := c.Ledger.Accounts.GetAccountByName(ctx, name)
	if errors.Is(err, services.ErrAccountNotFound) {
		return nil, translateError(auth.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, translateError(err)
	}
	if err := auth.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, translateError(err)
	}

	token, err := c.Tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &schemas.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(c.Tokens.TTL().Seconds()),
		AccountID:   account.ID,
	}, nil
}
