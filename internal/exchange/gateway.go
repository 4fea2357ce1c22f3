package exchange

import (
	"context"
	"errors"
	"time"

	"ares_bot/internal/models"
)

var (
	// ErrConnectivity — фид или гейтвей недоступен; цикл пропускается.
	ErrConnectivity = errors.New("gateway unreachable")
	// ErrRejected — брокер отказал в ордере.
	ErrRejected = errors.New("order rejected")
	// ErrNoData — за запрошенный период свечей нет.
	ErrNoData = errors.New("no data")
)

// CandleFeed — OHLC серии по символу и таймфрейму, старые первыми.
type CandleFeed interface {
	Candles(ctx context.Context, symbol string, tf models.Timeframe, count int) ([]models.Candle, error)
	CandlesRange(ctx context.Context, symbol string, tf models.Timeframe, from, to time.Time) ([]models.Candle, error)
}

// OrderGateway — котировки и жизненный цикл позиций.
type OrderGateway interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	OpenPosition(ctx context.Context, req models.OrderRequest) (models.Fill, error)
	// OpenPositions — позиции с любым из strategyIDs; пустой список — все.
	OpenPositions(ctx context.Context, strategyIDs []int64) ([]models.Position, error)
	ClosePosition(ctx context.Context, req models.CloseRequest) error
}

type AccountSource interface {
	Account(ctx context.Context) (models.AccountSnapshot, error)
}

// Broker — всё сразу; так устроены и бумажный брокер, и мост.
type Broker interface {
	CandleFeed
	OrderGateway
	AccountSource
}
