package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ares_bot/internal/models"
)

func candlesHL(highs, lows []float64) []models.Candle {
	out := make([]models.Candle, len(highs))
	for i := range highs {
		out[i] = models.Candle{
			Time: time.Unix(int64(i)*3600, 0),
			High: highs[i],
			Low:  lows[i],
		}
	}
	return out
}

func TestSwingPivots(t *testing.T) {
	highs := []float64{1, 2, 5, 2, 1, 1, 2, 3, 2, 1}
	lows := []float64{0.5, 1, 4, 1, 0.2, 0.5, 1, 2, 1, 0.5}

	sup, res := SwingPivots(candlesHL(highs, lows), 2)

	require.Len(t, res, 2)
	assert.Equal(t, 5.0, res[0].Price)
	assert.Equal(t, 3.0, res[1].Price)
	assert.Equal(t, models.PivotResistance, res[0].Kind)

	// края сравниваются только с существующими соседями
	var supPrices []float64
	for _, p := range sup {
		supPrices = append(supPrices, p.Price)
	}
	assert.Equal(t, []float64{0.5, 0.2, 0.5}, supPrices)
}

func TestSwingPivotsFlatRegionGivesAdjacentPivots(t *testing.T) {
	highs := []float64{1, 3, 3, 1, 0}
	lows := []float64{0, 2, 2, 0, 0}

	_, res := SwingPivots(candlesHL(highs, lows), 1)
	require.Len(t, res, 2)
	assert.Equal(t, time.Unix(3600, 0), res[0].Time)
	assert.Equal(t, time.Unix(7200, 0), res[1].Time)
}

func TestLastLevel(t *testing.T) {
	_, ok := LastLevel(nil)
	assert.False(t, ok)

	lvl, ok := LastLevel([]models.SwingPoint{{Price: 1}, {Price: 2}})
	assert.True(t, ok)
	assert.Equal(t, 2.0, lvl)
}
