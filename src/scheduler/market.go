package scheduler

import (
	"context"
	"time"

	"ledger/src/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ticker is anything that advances the market by one step.
type Ticker interface {
	Tick(ctx context.Context) (map[string]decimal.Decimal, error)
}

// NewMarketTicker schedules ticker on cronSpec. Each run gets its own
// timeout and a context carrying logger.
func NewMarketTicker(cronSpec string, ticker Ticker, logger *logrus.Logger, timeout time.Duration) (*ScheduledTask, error) {
	return NewScheduledTask(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = utils.WithLogger(ctx, logger)

		prices, err := ticker.Tick(ctx)
		if err != nil {
			logger.WithError(err).Error("market tick failed")
			return
		}
		logger.WithField("assets", len(prices)).Info("market tick")
	})
}
