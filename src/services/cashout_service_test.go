package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"ledger/src/config"
	"ledger/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCashout(t *testing.T) {
	ctx := context.Background()

	t.Run("should credit positions once per day", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		_, err := ledger.Investments.Invest(ctx, id, "WRRC", dec("1"), "LC")
		require.NoError(t, err)

		result, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		assertAmount(t, "100", result.TotalEUR)
		assertAmount(t, "1.99084213", result.Credited)
		assertAmount(t, "11.99084213", result.Balance)
		assert.Equal(t, "WRR", result.Currency)

		positions, err := ledger.Investments.GetPositions(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, positions)

		_, err = ledger.Cashouts.Cashout(ctx, id)
		assert.ErrorIs(t, err, services.ErrAlreadyCashedOutToday)

		balances, err := ledger.Accounts.GetBalances(ctx, id)
		require.NoError(t, err)
		assertAmount(t, "11.99084213", balances["WRR"])
	})

	t.Run("should value positions at the price current at cashout", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		_, err := ledger.Investments.Invest(ctx, id, "LBC", dec("1"), "KP")
		require.NoError(t, err)
		require.NoError(t, ledger.Prices.SetPrice(ctx, "LBC", dec("100.46")))

		result, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		assertAmount(t, "100.46", result.TotalEUR)
		assertAmount(t, "2", result.Credited)
	})

	t.Run("should consume the day even without positions", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		result, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		assert.True(t, result.Credited.IsZero())
		assertAmount(t, "10", result.Balance)

		eligibility, err := ledger.Cashouts.Eligibility(ctx, id)
		require.NoError(t, err)
		assert.False(t, eligibility.Eligible)
		require.NotNil(t, eligibility.LastCashoutDate)
		assert.Equal(t, eligibility.Today, *eligibility.LastCashoutDate)
	})

	t.Run("should allow a new cashout on the next day", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		ledger.Cashouts.SetClock(fixedClock(time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)))
		_, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)

		_, err = ledger.Cashouts.Cashout(ctx, id)
		assert.ErrorIs(t, err, services.ErrAlreadyCashedOutToday)

		ledger.Cashouts.SetClock(fixedClock(time.Date(2026, 10, 20, 0, 1, 0, 0, time.UTC)))
		eligibility, err := ledger.Cashouts.Eligibility(ctx, id)
		require.NoError(t, err)
		assert.True(t, eligibility.Eligible)
		assert.Equal(t, "2026-10-19", *eligibility.LastCashoutDate)

		result, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-20", result.Date)
	})

	t.Run("should follow the configured timezone", func(t *testing.T) {
		if _, err := time.LoadLocation("America/Argentina/Buenos_Aires"); err != nil {
			t.Skip("timezone database not available")
		}
		ledger, _ := setupLedger(t, func(cfg *config.Config) {
			cfg.Ledger.Timezone = "America/Argentina/Buenos_Aires"
		})
		id := createAccount(t, ledger, "alice")

		ledger.Cashouts.SetClock(fixedClock(time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC)))
		result, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-19", result.Date)
	})

	t.Run("should convert at the market price when configured", func(t *testing.T) {
		ledger, _ := setupLedger(t, func(cfg *config.Config) {
			cfg.Ledger.CashoutRateSource = config.RateSourceMarket
		})
		id := createAccount(t, ledger, "alice")

		_, err := ledger.Investments.Invest(ctx, id, "WRRC", dec("1"), "LC")
		require.NoError(t, err)
		require.NoError(t, ledger.Prices.SetPrice(ctx, "WRR", dec("25")))

		result, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		assertAmount(t, "4", result.Credited)
	})

	t.Run("should let exactly one of two concurrent cashouts through", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		_, err := ledger.Investments.Invest(ctx, id, "WRRC", dec("1"), "LC")
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = ledger.Cashouts.Cashout(ctx, id)
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, services.ErrAlreadyCashedOutToday)
				failures++
			}
		}
		assert.Equal(t, 1, failures)

		balances, err := ledger.Accounts.GetBalances(ctx, id)
		require.NoError(t, err)
		assertAmount(t, "11.99084213", balances["WRR"])
	})

	t.Run("should roll back the whole cashout when a write fails", func(t *testing.T) {
		ledger, db := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		_, err := ledger.Investments.Invest(ctx, id, "WRRC", dec("1"), "LC")
		require.NoError(t, err)
		require.NoError(t, db.Exec("DROP TABLE audit_events").Error)

		_, err = ledger.Cashouts.Cashout(ctx, id)
		assert.ErrorIs(t, err, services.ErrStorageUnavailable)

		positions, err := ledger.Investments.GetPositions(ctx, id)
		require.NoError(t, err)
		require.Contains(t, positions, "WRRC")
		assertAmount(t, "1", positions["WRRC"])

		balances, err := ledger.Accounts.GetBalances(ctx, id)
		require.NoError(t, err)
		assertAmount(t, "10", balances["WRR"])
		assertAmount(t, "20.13145083", balances["LC"])

		eligibility, err := ledger.Cashouts.Eligibility(ctx, id)
		require.NoError(t, err)
		assert.True(t, eligibility.Eligible)
		assert.Nil(t, eligibility.LastCashoutDate)
	})

	t.Run("should refuse a second cashout without reading prices", func(t *testing.T) {
		ledger, db := setupLedger(t)
		id := createAccount(t, ledger, "alice")

		_, err := ledger.Cashouts.Cashout(ctx, id)
		require.NoError(t, err)
		require.NoError(t, db.Exec("DROP TABLE prices").Error)

		_, err = ledger.Cashouts.Cashout(ctx, id)
		assert.ErrorIs(t, err, services.ErrAlreadyCashedOutToday)
		assert.NotErrorIs(t, err, services.ErrStorageUnavailable)
	})

	t.Run("should fail for an unknown account", func(t *testing.T) {
		ledger, _ := setupLedger(t)

		_, err := ledger.Cashouts.Cashout(ctx, "missing")
		assert.ErrorIs(t, err, services.ErrAccountNotFound)
	})
}
