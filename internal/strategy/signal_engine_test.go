package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ares_bot/internal/models"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func bullishSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		Symbol:     "Crash 500 Index",
		Support:    1000,
		HasSupport: true,
		Indicators: models.IndicatorSnapshot{
			EMAFast: 1010, EMAMid: 1005, EMASlow: 1000,
			RSI: 50, ATR: 2, VolExpanding: true,
		},
	}
}

func TestDecideOpenLongInSupportZone(t *testing.T) {
	p := models.ParamsFor("Crash 500 Index")
	sig := Decide(p, bullishSnapshot(), models.Quote{Bid: 1001.8, Ask: 1002}, now)

	assert.Equal(t, models.ActionOpenLong, sig.Action)
	assert.Equal(t, 1002.0, sig.Price)
	assert.Equal(t, p.StopLossDistance, sig.StopDistance)
	assert.Equal(t, p.StrategyID, sig.StrategyID)
	assert.Equal(t, "Support Zone", sig.Reason)
}

func TestDecideOutsideZone(t *testing.T) {
	p := models.ParamsFor("Crash 500 Index")
	sig := Decide(p, bullishSnapshot(), models.Quote{Bid: 1010, Ask: 1010.2}, now)
	assert.Equal(t, models.ActionNone, sig.Action)
}

func TestDecideZoneBoundaryInclusive(t *testing.T) {
	p := models.ParamsFor("Crash 500 Index")
	sig := Decide(p, bullishSnapshot(), models.Quote{Bid: 1004.8, Ask: 1000 + p.ZoneWidth}, now)
	assert.Equal(t, models.ActionOpenLong, sig.Action)
}

func TestDecideFilters(t *testing.T) {
	p := models.ParamsFor("Crash 500 Index")
	q := models.Quote{Bid: 1001.8, Ask: 1002}

	flat := bullishSnapshot()
	flat.Indicators.VolExpanding = false
	assert.Equal(t, models.ActionNone, Decide(p, flat, q, now).Action)

	hot := bullishSnapshot()
	hot.Indicators.RSI = 75
	assert.Equal(t, models.ActionNone, Decide(p, hot, q, now).Action)

	lagging := bullishSnapshot()
	lagging.Indicators.EMAFast = lagging.Indicators.EMAMid - p.EMASensitivity
	assert.Equal(t, models.ActionNone, Decide(p, lagging, q, now).Action)
}

func TestDecideOpenShortAtResistance(t *testing.T) {
	p := models.ParamsFor("Boom 1000 Index")
	snap := models.MarketSnapshot{
		Symbol:        "Boom 1000 Index",
		Resistance:    1003,
		HasResistance: true,
		Indicators: models.IndicatorSnapshot{
			EMAFast: 990, EMAMid: 995, EMASlow: 1000,
			RSI: 40, VolExpanding: true,
		},
	}
	sig := Decide(p, snap, models.Quote{Bid: 1001, Ask: 1001.3}, now)

	assert.Equal(t, models.ActionOpenShort, sig.Action)
	assert.Equal(t, 1001.0, sig.Price)
	assert.Equal(t, 5.0, sig.StopDistance)
	assert.Equal(t, int64(100100), sig.StrategyID)
	assert.Equal(t, "Resistance Zone", sig.Reason)
}

func TestDecideTrendlineZone(t *testing.T) {
	p := models.ParamsFor("Crash 500 Index")
	snap := bullishSnapshot()
	snap.HasSupport = false
	snap.SupportLine = &models.TrendLine{Slope: 0, Intercept: 1000, TouchCount: 3, Mode: models.PivotSupport}

	sig := Decide(p, snap, models.Quote{Bid: 1001.8, Ask: 1002}, now)
	assert.Equal(t, models.ActionOpenLong, sig.Action)
	assert.Equal(t, "Support Trendline", sig.Reason)
}
