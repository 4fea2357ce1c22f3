package strategy

import "ares_bot/internal/models"

// DefaultPivotOrder — полуширина окна экстремума в барах.
const DefaultPivotOrder = 5

// SwingPivots размечает локальные экстремумы: resistance по high, support по low.
// Сравнение нестрогое, поэтому плоский участок даёт несколько соседних пивотов.
// У краёв серии окно обрезается. Результат в хронологическом порядке.
func SwingPivots(candles []models.Candle, order int) (supports, resistances []models.SwingPoint) {
	if order < 1 {
		order = DefaultPivotOrder
	}
	for i := range candles {
		lo, hi := i-order, i+order
		if lo < 0 {
			lo = 0
		}
		if hi > len(candles)-1 {
			hi = len(candles) - 1
		}

		isHigh, isLow := true, true
		for j := lo; j <= hi && (isHigh || isLow); j++ {
			if j == i {
				continue
			}
			if candles[i].High < candles[j].High {
				isHigh = false
			}
			if candles[i].Low > candles[j].Low {
				isLow = false
			}
		}

		if isHigh {
			resistances = append(resistances, models.SwingPoint{
				Time: candles[i].Time, Price: candles[i].High, Kind: models.PivotResistance,
			})
		}
		if isLow {
			supports = append(supports, models.SwingPoint{
				Time: candles[i].Time, Price: candles[i].Low, Kind: models.PivotSupport,
			})
		}
	}
	return supports, resistances
}

// LastLevel — цена последнего пивота (уровень, который держится до следующего).
func LastLevel(points []models.SwingPoint) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	return points[len(points)-1].Price, true
}
