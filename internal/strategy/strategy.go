package strategy

import (
	"context"
	"errors"

	"ares_bot/internal/models"
)

// ErrNotEnoughData — серия короче, чем нужно индикатору.
var ErrNotEnoughData = errors.New("not enough candles")

// CandleSource — то, откуда анализатор берёт свечи (exchange.CandleFeed).
type CandleSource interface {
	Candles(ctx context.Context, symbol string, tf models.Timeframe, count int) ([]models.Candle, error)
}

// Analyzer — то, что раннер дергает каждый цикл по символу.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (models.MarketSnapshot, error)
}
