package strategy

import (
	"go.uber.org/fx"

	"ares_bot/internal/exchange"
	"ares_bot/internal/modules/config"
)

func NewAnalyzer(feed exchange.CandleFeed, cfg *config.Config) Analyzer {
	ac := DefaultAnalyzerConfig()
	e := cfg.Engine
	if e.PivotOrder > 0 {
		ac.PivotOrder = e.PivotOrder
	}
	if e.CoarseCandles > 0 {
		ac.CoarseCount = e.CoarseCandles
	}
	if e.FineCandles > 0 {
		ac.FineCount = e.FineCandles
	}
	if e.TrendLookback > 0 {
		ac.Trend.Lookback = e.TrendLookback
	}
	if e.TrendTolerance > 0 {
		ac.Trend.Tolerance = e.TrendTolerance
	}
	if e.EMAFast > 0 && e.EMAMid > 0 && e.EMASlow > 0 {
		ac.Indicators.EMAFast, ac.Indicators.EMAMid, ac.Indicators.EMASlow = e.EMAFast, e.EMAMid, e.EMASlow
	}
	return NewMarketAnalyzer(feed, ac)
}

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(NewAnalyzer),
	)
}
