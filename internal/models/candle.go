package models

import "time"

// Timeframe — таймфрейм свечей, который понимает CandleFeed.
type Timeframe string

const (
	TimeframeM1 Timeframe = "M1"
	TimeframeH1 Timeframe = "H1"
)

// Candle — OHLC свеча.
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

type PivotKind string

const (
	PivotSupport    PivotKind = "support"
	PivotResistance PivotKind = "resistance"
)

// SwingPoint — локальный экстремум (swing low для support, swing high для resistance).
type SwingPoint struct {
	Time  time.Time
	Price float64
	Kind  PivotKind
}

// TrendLine — лучшая линия по пивотам: price = Slope*unixSeconds + Intercept.
type TrendLine struct {
	Slope      float64
	Intercept  float64
	TouchCount int
	Mode       PivotKind
}

// PriceAt возвращает значение линии в момент t.
func (l TrendLine) PriceAt(t time.Time) float64 {
	return l.Slope*float64(t.Unix()) + l.Intercept
}

// IndicatorSnapshot — последние значения индикаторов по младшему таймфрейму.
type IndicatorSnapshot struct {
	EMAFast      float64
	EMAMid       float64
	EMASlow      float64
	RSI          float64
	ATR          float64
	VolExpanding bool
}

// MarketSnapshot — всё, что SignalEngine получает на вход за один цикл.
type MarketSnapshot struct {
	Symbol string

	Support       float64
	HasSupport    bool
	Resistance    float64
	HasResistance bool

	SupportLine    *TrendLine // nil — линии нет
	ResistanceLine *TrendLine

	Indicators IndicatorSnapshot
}
