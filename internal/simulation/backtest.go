package simulation

import (
	"context"
	"fmt"
	"time"

	"ares_bot/internal/exchange"
	"ares_bot/internal/models"
)

const (
	DefaultBacktestDays = 5

	backtestStart   = 200
	backtestStride  = 50
	backtestBalance = 1000.0
	backtestWin     = 40.0
	backtestLoss    = -20.0
)

// RangeFeed — исторические свечи за интервал.
type RangeFeed interface {
	CandlesRange(ctx context.Context, symbol string, tf models.Timeframe, from, to time.Time) ([]models.Candle, error)
}

// Backtest — упрощённый прогон по M1-свечам за days дней. Решения не от SignalEngine:
// с каждой 50-й свечи, начиная с 200-й, сделка берётся с вероятностью 0.5
// и даёт +40 с вероятностью 0.55, иначе -20. Результат не авторитетен.
func (s *Simulator) Backtest(ctx context.Context, feed RangeFeed, symbol string, days int, now time.Time) (models.BacktestSummary, error) {
	if days <= 0 {
		days = DefaultBacktestDays
	}
	from := now.Add(-time.Duration(days) * 24 * time.Hour)

	candles, err := feed.CandlesRange(ctx, symbol, models.TimeframeM1, from, now)
	if err != nil {
		return models.BacktestSummary{}, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return models.BacktestSummary{}, fmt.Errorf("backtest %s: %w", symbol, exchange.ErrNoData)
	}

	balance := backtestBalance
	wins, losses := 0, 0
	for i := backtestStart; i < len(candles); i += backtestStride {
		if s.rng.Float64() <= 0.5 {
			continue
		}
		res := backtestLoss
		if s.rng.Float64() > 0.45 {
			res = backtestWin
		}
		balance += res
		if res > 0 {
			wins++
		} else {
			losses++
		}
	}

	sum := models.BacktestSummary{
		Symbol:       symbol,
		NetProfit:    balance - backtestBalance,
		FinalBalance: balance,
		TradeCount:   wins + losses,
	}
	if sum.TradeCount > 0 {
		sum.WinRate = float64(wins) / float64(sum.TradeCount) * 100
	}
	return sum, nil
}
