package services_test

import (
	"context"
	"testing"

	"ledger/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketTick(t *testing.T) {
	ctx := context.Background()

	t.Run("should move every price by at most the max step", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		ledger.Market.SetDraw(func() float64 { return 1 })

		prices, err := ledger.Market.Tick(ctx)
		require.NoError(t, err)
		assertAmount(t, "102", prices["WRRC"])
		assertAmount(t, "40.8", prices["KSP"])

		ledger.Market.SetDraw(func() float64 { return 0 })
		prices, err = ledger.Market.Tick(ctx)
		require.NoError(t, err)
		assertAmount(t, "99.96", prices["WRRC"])

		stored, err := ledger.Prices.GetPrice(ctx, "WRRC")
		require.NoError(t, err)
		assertAmount(t, "99.96", stored)
	})

	t.Run("should leave prices unchanged on a neutral draw", func(t *testing.T) {
		ledger, _ := setupLedger(t)
		ledger.Market.SetDraw(func() float64 { return 0.5 })

		prices, err := ledger.Market.Tick(ctx)
		require.NoError(t, err)
		assertAmount(t, "50.23", prices["WRR"])
	})

	t.Run("should record the tick in the audit log", func(t *testing.T) {
		ledger, _ := setupLedger(t)

		_, err := ledger.Market.Tick(ctx)
		require.NoError(t, err)

		events, err := ledger.Audit.Recent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Market tick", events[0].Message)
		assert.Nil(t, events[0].AccountID)
	})
}

func TestStep(t *testing.T) {
	assertAmount(t, "50.2300", services.Step(dec("50.23"), 0))
	assertAmount(t, "51.2346", services.Step(dec("50.23"), 0.02))
	assertAmount(t, "0.01", services.Step(dec("0.01"), -0.02))
	assertAmount(t, "1.2346", services.Step(dec("1.23456"), 0))
}
