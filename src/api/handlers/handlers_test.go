package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/src/api"
	"ledger/src/api/controllers"
	"ledger/src/api/handlers"
	"ledger/src/auth"
	"ledger/src/init_test"
	"ledger/src/schemas"
	"ledger/src/services"
	"ledger/src/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	*httptest.Server
	ledger *services.Ledger
	db     *gorm.DB
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db := init_test.SetupTestDB(t)
	cfg := init_test.TestConfig()
	metrics := utils.NewMetrics()

	ledger, err := services.NewLedger(db, cfg, nil, metrics)
	require.NoError(t, err)
	require.NoError(t, ledger.Bootstrap(context.Background(), cfg))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens := auth.NewTokens(cfg.Service.JWTSecret, cfg.Service.TokenTTL)
	handler := handlers.NewHandler(controllers.NewController(ledger, tokens), logger)
	server := httptest.NewServer(api.NewServer(handler, tokens, metrics))
	t.Cleanup(server.Close)

	return &testServer{Server: server, ledger: ledger, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = strings.NewReader(raw)
		} else {
			payload, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func register(t *testing.T, s *testServer, name string) schemas.RegisterResponse {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/api/accounts", "", schemas.RegisterRequest{Name: name, Password: name + "-secret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var account schemas.RegisterResponse
	decodeBody(t, resp, &account)
	return account
}

func TestHealthcheck(t *testing.T) {
	s := setupServer(t)

	resp := s.do(t, http.MethodGet, "/alive", "", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Im alive!", string(body))
}

func TestAccountsAPI(t *testing.T) {
	s := setupServer(t)
	alice := register(t, s, "alice")

	t.Run("should reject a duplicate name", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/accounts", "", schemas.RegisterRequest{Name: "alice", Password: "x"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/accounts", "", schemas.RegisterRequest{Name: "  ", Password: "x"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/accounts", "", "{")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should issue a token for valid credentials", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/token", "", schemas.TokenRequest{Name: "alice", Password: "alice-secret"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var token schemas.TokenResponse
		decodeBody(t, resp, &token)
		assert.Equal(t, alice.ID, token.AccountID)
		assert.Equal(t, "bearer", token.TokenType)
		assert.NotEmpty(t, token.AccessToken)
	})

	t.Run("should refuse wrong credentials", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/token", "", schemas.TokenRequest{Name: "alice", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = s.do(t, http.MethodPost, "/api/token", "", schemas.TokenRequest{Name: "mallory", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should require a token for account routes", func(t *testing.T) {
		for _, path := range []string{"/api/me", "/api/balances", "/api/positions", "/api/statement"} {
			resp := s.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		}
	})

	t.Run("should show the dashboard", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/me", alice.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var dashboard schemas.Dashboard
		decodeBody(t, resp, &dashboard)
		assert.Equal(t, "alice", dashboard.Account.Name)
		assert.True(t, decimal.NewFromInt(25).Equal(dashboard.Balances["LC"]))
		assert.True(t, dashboard.Cashout.Eligible)
		assert.Empty(t, dashboard.Positions)
		assert.Len(t, dashboard.Prices, 4)
		assert.Len(t, dashboard.Rates, 3)
	})

	t.Run("should list balances", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/balances", alice.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var balances map[string]decimal.Decimal
		decodeBody(t, resp, &balances)
		assert.True(t, decimal.NewFromInt(10).Equal(balances["WRR"]))
		assert.True(t, decimal.NewFromInt(50).Equal(balances["KP"]))
	})

	t.Run("should export a statement workbook", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/statement", alice.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(body, []byte("PK")))
	})
}

func TestLedgerAPI(t *testing.T) {
	s := setupServer(t)
	alice := register(t, s, "alice")

	t.Run("should invest", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/investments", alice.Token,
			schemas.InvestmentRequest{Asset: "wrrc", Shares: decimal.NewFromInt(1), Currency: "lc"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result schemas.InvestmentResult
		decodeBody(t, resp, &result)
		assert.Equal(t, "WRRC", result.Asset)
		assert.True(t, decimal.RequireFromString("4.86854917").Equal(result.Cost))
		assert.True(t, decimal.RequireFromString("20.13145083").Equal(result.Balance))
	})

	t.Run("should list valued positions", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/positions", alice.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var positions []schemas.PositionValue
		decodeBody(t, resp, &positions)
		require.Len(t, positions, 1)
		assert.Equal(t, "WRRC", positions[0].Asset)
		assert.True(t, decimal.NewFromInt(100).Equal(positions[0].ValueEUR))
	})

	t.Run("should map investment failures", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/investments", alice.Token,
			schemas.InvestmentRequest{Asset: "DOGE", Shares: decimal.NewFromInt(1), Currency: "LC"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = s.do(t, http.MethodPost, "/api/investments", alice.Token,
			schemas.InvestmentRequest{Asset: "WRRC", Shares: decimal.NewFromInt(100), Currency: "LC"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		resp = s.do(t, http.MethodPost, "/api/investments", alice.Token,
			schemas.InvestmentRequest{Asset: "WRRC", Shares: decimal.NewFromInt(-1), Currency: "LC"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = s.do(t, http.MethodPost, "/api/investments", alice.Token,
			schemas.InvestmentRequest{Asset: "WRRC", Shares: decimal.NewFromInt(1), Currency: "USD"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should cash out once per day", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/cashout", alice.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result schemas.CashoutResult
		decodeBody(t, resp, &result)
		assert.Equal(t, "WRR", result.Currency)
		assert.True(t, decimal.NewFromInt(100).Equal(result.TotalEUR))
		assert.True(t, decimal.RequireFromString("1.99084213").Equal(result.Credited))

		resp = s.do(t, http.MethodPost, "/api/cashout", alice.Token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("should settle a winning wager", func(t *testing.T) {
		s.ledger.Wagers.SetDraw(func() float64 { return 0 })

		resp := s.do(t, http.MethodPost, "/api/wagers", alice.Token,
			schemas.WagerRequest{Currency: "KP", Stake: decimal.NewFromInt(5)})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result schemas.WagerResult
		decodeBody(t, resp, &result)
		assert.True(t, result.Won)
		assert.True(t, decimal.NewFromInt(10).Equal(result.Payout))
		assert.True(t, decimal.NewFromInt(55).Equal(result.Balance))
	})

	t.Run("should refuse a stake above the balance", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/wagers", alice.Token,
			schemas.WagerRequest{Currency: "KP", Stake: decimal.NewFromInt(1000)})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("should reject a token for a missing account", func(t *testing.T) {
		token, err := auth.NewTokens(init_test.TestConfig().Service.JWTSecret, 0).Issue("ghost")
		require.NoError(t, err)

		resp := s.do(t, http.MethodGet, "/api/me", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestMarketAPI(t *testing.T) {
	s := setupServer(t)
	register(t, s, "alice")

	t.Run("should list prices", func(t *testing.T) {
		for _, path := range []string{"/api/prices", "/api/snapshot"} {
			resp := s.do(t, http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var prices map[string]decimal.Decimal
			decodeBody(t, resp, &prices)
			assert.True(t, decimal.RequireFromString("50.23").Equal(prices["WRR"]), path)
			assert.Len(t, prices, 4)
		}
	})

	t.Run("should list rates", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/rates", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rates map[string]decimal.Decimal
		decodeBody(t, resp, &rates)
		assert.True(t, decimal.RequireFromString("20.54").Equal(rates["LC"]))
	})

	t.Run("should list audit events", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/audit?limit=1", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var events []schemas.AuditEvent
		decodeBody(t, resp, &events)
		require.Len(t, events, 1)
		assert.Equal(t, "User created: alice", events[0].Message)
	})

	t.Run("should reject a bad limit", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/audit?limit=many", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should expose metrics", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "ledger_operations_total")
	})
}

func TestStorageFailureAPI(t *testing.T) {
	s := setupServer(t)
	alice := register(t, s, "alice")

	resp := s.do(t, http.MethodPost, "/api/investments", alice.Token,
		schemas.InvestmentRequest{Asset: "WRRC", Shares: decimal.NewFromInt(1), Currency: "LC"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, s.db.Exec("DROP TABLE audit_events").Error)

	resp = s.do(t, http.MethodPost, "/api/cashout", alice.Token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, services.ErrStorageUnavailable.Error(), body["error"])

	resp = s.do(t, http.MethodGet, "/api/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dashboard schemas.Dashboard
	decodeBody(t, resp, &dashboard)
	assert.True(t, dashboard.Cashout.Eligible)
	assert.True(t, decimal.NewFromInt(10).Equal(dashboard.Balances["WRR"]))
	require.Len(t, dashboard.Positions, 1)
	assert.Equal(t, "WRRC", dashboard.Positions[0].Asset)
}
