package strategy

import (
	"fmt"
	"math"
	"time"

	"ares_bot/internal/models"
)

// Decide — чистое решение по одному символу за цикл.
// Лонг: ask в зоне поддержки (уровень или линия), бычий порядок EMA, RSI в коридоре, волатильность растёт.
// Шорт зеркально от сопротивления. Лонг проверяется первым.
func Decide(p models.StrategyParams, snap models.MarketSnapshot, q models.Quote, now time.Time) models.Signal {
	ind := snap.Indicators

	if !ind.VolExpanding {
		return models.NoAction(snap.Symbol, "volatility flat")
	}
	if ind.RSI < p.RSILow || ind.RSI > p.RSIHigh {
		return models.NoAction(snap.Symbol, fmt.Sprintf("rsi %.1f outside %.0f-%.0f", ind.RSI, p.RSILow, p.RSIHigh))
	}

	if bullish(ind, p.EMASensitivity) {
		if where, ok := inZone(q.Ask, snap.Support, snap.HasSupport, snap.SupportLine, p.ZoneWidth, now); ok {
			return openSignal(snap.Symbol, models.ActionOpenLong, q.Ask, p, "Support "+where)
		}
	}
	if bearish(ind, p.EMASensitivity) {
		if where, ok := inZone(q.Bid, snap.Resistance, snap.HasResistance, snap.ResistanceLine, p.ZoneWidth, now); ok {
			return openSignal(snap.Symbol, models.ActionOpenShort, q.Bid, p, "Resistance "+where)
		}
	}
	return models.NoAction(snap.Symbol, "no setup")
}

func bullish(ind models.IndicatorSnapshot, sens float64) bool {
	return ind.EMAMid > ind.EMASlow && ind.EMAFast > ind.EMAMid-sens
}

func bearish(ind models.IndicatorSnapshot, sens float64) bool {
	return ind.EMAMid < ind.EMASlow && ind.EMAFast < ind.EMAMid+sens
}

func inZone(price, level float64, hasLevel bool, line *models.TrendLine, width float64, now time.Time) (string, bool) {
	if hasLevel && math.Abs(price-level) <= width {
		return "Zone", true
	}
	if line != nil && math.Abs(price-line.PriceAt(now)) <= width {
		return "Trendline", true
	}
	return "", false
}

func openSignal(symbol string, a models.Action, price float64, p models.StrategyParams, reason string) models.Signal {
	return models.Signal{
		Symbol:       symbol,
		Action:       a,
		Price:        price,
		StopDistance: p.StopLossDistance,
		StrategyID:   p.StrategyID,
		Reason:       reason,
	}
}
