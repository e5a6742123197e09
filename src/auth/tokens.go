package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ledger/src/utils"

	"github.com/go-chi/jwtauth"
)

const AccountIDClaim = "account_id"

var ErrMissingAccount = errors.New("token carries no account")

// Tokens issues and verifies the HS256 session tokens handed out at login.
type Tokens struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
	now func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		ja:  jwtauth.New("HS256", []byte(secret), nil),
		ttl: ttl,
		now: time.Now,
	}
}

// Issue returns a signed token for accountID.
func (t *Tokens) Issue(accountID string) (string, error) {
	claims := map[string]interface{}{AccountIDClaim: accountID}
	jwtauth.SetIssuedAt(claims, t.now())
	if t.ttl > 0 {
		jwtauth.SetExpiry(claims, t.now().Add(t.ttl))
	}
	_, token, err := t.ja.Encode(claims)
	return token, err
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Verifier reads the bearer token of every request into its context.
func (t *Tokens) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(t.ja)
}

// Authenticator rejects requests whose token is missing, invalid, expired or
// has no account claim.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := AccountID(r.Context()); err != nil {
			utils.WriteError(w, utils.Unauthorized(err.Error()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountID extracts the authenticated account from a verified request context.
func AccountID(ctx context.Context) (string, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", jwtauth.ErrNoTokenFound
	}
	accountID, ok := claims[AccountIDClaim].(string)
	if !ok || accountID == "" {
		return "", ErrMissingAccount
	}
	return accountID, nil
}
