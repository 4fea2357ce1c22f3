package strategy

import (
	"context"
	"fmt"

	"ares_bot/internal/models"
)

type AnalyzerConfig struct {
	PivotOrder  int
	CoarseCount int // свечей H1 для пивотов и линий
	FineCount   int // свечей M1 для индикаторов
	Trend       TrendConfig
	Indicators  IndicatorConfig
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		PivotOrder:  DefaultPivotOrder,
		CoarseCount: 1000,
		FineCount:   200,
		Trend:       TrendConfig{Lookback: DefaultTrendLookback, Tolerance: DefaultTrendTolerance},
		Indicators:  DefaultIndicatorConfig(),
	}
}

// MarketAnalyzer собирает MarketSnapshot из двух таймфреймов фида.
type MarketAnalyzer struct {
	feed CandleSource
	cfg  AnalyzerConfig
}

func NewMarketAnalyzer(feed CandleSource, cfg AnalyzerConfig) *MarketAnalyzer {
	return &MarketAnalyzer{feed: feed, cfg: cfg}
}

func (a *MarketAnalyzer) Analyze(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	snap := models.MarketSnapshot{Symbol: symbol}

	coarse, err := a.feed.Candles(ctx, symbol, models.TimeframeH1, a.cfg.CoarseCount)
	if err != nil {
		return snap, fmt.Errorf("coarse candles %s: %w", symbol, err)
	}
	supports, resistances := SwingPivots(coarse, a.cfg.PivotOrder)
	snap.Support, snap.HasSupport = LastLevel(supports)
	snap.Resistance, snap.HasResistance = LastLevel(resistances)
	snap.SupportLine = FitTrendLine(supports, models.PivotSupport, a.cfg.Trend)
	snap.ResistanceLine = FitTrendLine(resistances, models.PivotResistance, a.cfg.Trend)

	fine, err := a.feed.Candles(ctx, symbol, models.TimeframeM1, a.cfg.FineCount)
	if err != nil {
		return snap, fmt.Errorf("fine candles %s: %w", symbol, err)
	}
	snap.Indicators, err = ComputeIndicators(fine, a.cfg.Indicators)
	if err != nil {
		return snap, fmt.Errorf("%s: %w", symbol, err)
	}
	return snap, nil
}
