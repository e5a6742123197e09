package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/src/init_test"
	"ledger/src/services"
	"ledger/src/utils"
	"ledger/src/worker"
	"ledger/src/worker/controllers"
	"ledger/src/worker/handlers"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorker(t *testing.T) (*worker.Server, *services.Ledger) {
	t.Helper()

	db := init_test.SetupTestDB(t)
	cfg := init_test.TestConfig()
	metrics := utils.NewMetrics()

	ledger, err := services.NewLedger(db, cfg, nil, metrics)
	require.NoError(t, err)
	require.NoError(t, ledger.Bootstrap(context.Background(), cfg))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := handlers.NewHandler(controllers.NewController(ledger), logger)
	return worker.NewServer(handler, metrics), ledger
}

func serve(server http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestWorkerHealthcheck(t *testing.T) {
	server, _ := setupWorker(t)

	rec := serve(server, http.MethodGet, "/alive", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Im alive!", rec.Body.String())
}

func TestPostTick(t *testing.T) {
	server, ledger := setupWorker(t)
	ledger.Market.SetDraw(func() float64 { return 1 })

	rec := serve(server, http.MethodPost, "/api/prices/tick", "")
	require.Equal(t, http.StatusOK, rec.Code)

	price, err := ledger.Prices.GetPrice(context.Background(), "LBC")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(75).LessThan(price), "expected LBC above 75, got %s", price)
	assert.Contains(t, rec.Body.String(), `"LBC"`)
}

func TestPutPrice(t *testing.T) {
	server, ledger := setupWorker(t)

	t.Run("should override a price", func(t *testing.T) {
		rec := serve(server, http.MethodPut, "/api/prices/wrrc", `{"price_eur": "120.5"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"WRRC": "120.5"}`, rec.Body.String())

		price, err := ledger.Prices.GetPrice(context.Background(), "WRRC")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("120.5").Equal(price))
	})

	t.Run("should reject a non positive price", func(t *testing.T) {
		rec := serve(server, http.MethodPut, "/api/prices/WRRC", `{"price_eur": 0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		rec := serve(server, http.MethodPut, "/api/prices/WRRC", `price`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
