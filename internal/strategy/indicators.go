package strategy

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"ares_bot/internal/models"
)

// IndicatorConfig — длины индикаторов младшего таймфрейма.
type IndicatorConfig struct {
	EMAFast   int
	EMAMid    int
	EMASlow   int
	RSIPeriod int
	ATRPeriod int
	VolWindow int // окно среднего ATR для флага расширения волатильности
}

func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		EMAFast:   20,
		EMAMid:    50,
		EMASlow:   200,
		RSIPeriod: 14,
		ATRPeriod: 14,
		VolWindow: 10,
	}
}

// MinCandles — минимальная длина серии, при которой все значения определены.
func (c IndicatorConfig) MinCandles() int {
	n := c.EMASlow
	for _, v := range []int{c.EMAFast, c.EMAMid, c.RSIPeriod + 1, c.ATRPeriod + c.VolWindow} {
		if v > n {
			n = v
		}
	}
	return n
}

// ComputeIndicators считает последние EMA/RSI/ATR по серии свечей.
// Формулы целиком на стороне talib; здесь только выборка последних значений.
func ComputeIndicators(candles []models.Candle, cfg IndicatorConfig) (models.IndicatorSnapshot, error) {
	if need := cfg.MinCandles(); len(candles) < need {
		return models.IndicatorSnapshot{}, fmt.Errorf("indicators: have %d, need %d: %w", len(candles), need, ErrNotEnoughData)
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i], highs[i], lows[i] = c.Close, c.High, c.Low
	}

	atr := talib.Atr(highs, lows, closes, cfg.ATRPeriod)
	// первые ATRPeriod значений talib оставляет нулями
	avgATR := talib.Sma(atr[cfg.ATRPeriod:], cfg.VolWindow)
	lastATR := last(atr)

	return models.IndicatorSnapshot{
		EMAFast:      last(talib.Ema(closes, cfg.EMAFast)),
		EMAMid:       last(talib.Ema(closes, cfg.EMAMid)),
		EMASlow:      last(talib.Ema(closes, cfg.EMASlow)),
		RSI:          last(talib.Rsi(closes, cfg.RSIPeriod)),
		ATR:          lastATR,
		VolExpanding: lastATR > last(avgATR),
	}, nil
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}
