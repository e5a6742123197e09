package utils_test

import (
	"errors"
	"testing"
	"time"

	"ledger/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("should count operations by result", func(t *testing.T) {
		metrics := utils.NewMetrics()
		metrics.Observe("invest", time.Now(), nil)
		metrics.Observe("invest", time.Now(), nil)
		metrics.Observe("invest", time.Now(), errors.New("insufficient funds"))

		families, err := metrics.Registry.Gather()
		require.NoError(t, err)

		counts := map[string]float64{}
		for _, family := range families {
			if family.GetName() != "ledger_operations_total" {
				continue
			}
			for _, metric := range family.GetMetric() {
				for _, label := range metric.GetLabel() {
					if label.GetName() == "result" {
						counts[label.GetValue()] = metric.GetCounter().GetValue()
					}
				}
			}
		}
		assert.Equal(t, 2.0, counts["ok"])
		assert.Equal(t, 1.0, counts["error"])
	})

	t.Run("should ignore a nil receiver", func(t *testing.T) {
		var metrics *utils.Metrics
		assert.NotPanics(t, func() { metrics.Observe("wager", time.Now(), nil) })
	})
}
