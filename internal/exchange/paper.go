package exchange

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"ares_bot/internal/models"
	"ares_bot/pkg/logger"
)

type PaperConfig struct {
	StartBalance float64
	Spread       float64 // ask - bid
	Point        float64 // цена одного пункта deviation
	StepStdDev   float64 // шаг случайного блуждания
	Seed         uint64
}

func DefaultPaperConfig() PaperConfig {
	return PaperConfig{
		StartBalance: 1000,
		Spread:       0.2,
		Point:        0.01,
		StepStdDev:   0.5,
		Seed:         42,
	}
}

// PaperBroker — бумажный брокер в памяти: случайное блуждание цены,
// исполнение по текущей котировке, PnL = разница цен * объём.
type PaperBroker struct {
	mu        sync.Mutex
	cfg       PaperConfig
	rng       *rand.Rand
	mids      map[string]float64
	positions map[int64]*models.Position
	seq       int64
	balance   float64
	now       func() time.Time
}

func NewPaperBroker(cfg PaperConfig) *PaperBroker {
	if cfg.Point <= 0 {
		cfg.Point = 0.01
	}
	b := &PaperBroker{
		cfg:       cfg,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		mids:      make(map[string]float64),
		positions: make(map[int64]*models.Position),
		balance:   cfg.StartBalance,
		now:       time.Now,
	}
	for i, sym := range models.Symbols {
		b.mids[sym] = 1000 * float64(i+5)
	}
	return b
}

// SetPrice ставит mid-цену символа.
func (b *PaperBroker) SetPrice(symbol string, mid float64) {
	b.mu.Lock()
	b.mids[symbol] = mid
	b.mu.Unlock()
}

// Step двигает все цены на один шаг блуждания.
func (b *PaperBroker) Step() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sym, mid := range b.mids {
		b.mids[sym] = math.Max(b.cfg.Point, mid+b.rng.NormFloat64()*b.cfg.StepStdDev)
	}
}

// Run двигает цены раз в interval, пока жив ctx.
func (b *PaperBroker) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.Step()
		}
	}
}

func (b *PaperBroker) quoteLocked(symbol string) (models.Quote, bool) {
	mid, ok := b.mids[symbol]
	if !ok {
		return models.Quote{}, false
	}
	half := b.cfg.Spread / 2
	return models.Quote{Bid: mid - half, Ask: mid + half}, true
}

func (b *PaperBroker) Quote(_ context.Context, symbol string) (models.Quote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.quoteLocked(symbol)
	if !ok {
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrNoData)
	}
	return q, nil
}

func (b *PaperBroker) OpenPosition(_ context.Context, req models.OrderRequest) (models.Fill, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.quoteLocked(req.Symbol)
	if !ok {
		return models.Fill{}, fmt.Errorf("open %s: unknown symbol: %w", req.Symbol, ErrRejected)
	}
	if req.Volume <= 0 {
		return models.Fill{}, fmt.Errorf("open %s: volume %.2f: %w", req.Symbol, req.Volume, ErrRejected)
	}

	price := q.Ask
	if req.Side == models.SideSell {
		price = q.Bid
	}
	// fill-or-kill: цена ушла дальше допустимого отклонения
	if req.Price > 0 && req.Deviation > 0 && math.Abs(price-req.Price) > float64(req.Deviation)*b.cfg.Point {
		return models.Fill{}, fmt.Errorf("open %s: requote %.2f -> %.2f: %w", req.Symbol, req.Price, price, ErrRejected)
	}

	stop := req.StopPrice
	if stop == 0 && req.StopDistance > 0 {
		stop = price - req.StopDistance
		if req.Side == models.SideSell {
			stop = price + req.StopDistance
		}
	}

	b.seq++
	now := b.now()
	b.positions[b.seq] = &models.Position{
		Ticket:     b.seq,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Volume:     req.Volume,
		EntryPrice: price,
		StopPrice:  stop,
		OpenTime:   now,
		StrategyID: req.StrategyID,
	}
	logger.Debug("[PAPER] open #%d %s %s %.2f @ %.2f", b.seq, req.Symbol, req.Side, req.Volume, price)
	return models.Fill{Ticket: b.seq, FillPrice: price, FilledAt: now}, nil
}

func (b *PaperBroker) profitLocked(p *models.Position) float64 {
	q, _ := b.quoteLocked(p.Symbol)
	if p.Side == models.SideBuy {
		return (q.Bid - p.EntryPrice) * p.Volume
	}
	return (p.EntryPrice - q.Ask) * p.Volume
}

func (b *PaperBroker) OpenPositions(_ context.Context, strategyIDs []int64) ([]models.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Position, 0, len(b.positions))
	for _, p := range b.positions {
		if len(strategyIDs) > 0 && !slices.Contains(strategyIDs, p.StrategyID) {
			continue
		}
		cp := *p
		cp.Profit = b.profitLocked(p)
		out = append(out, cp)
	}
	slices.SortFunc(out, func(a, c models.Position) int { return cmp.Compare(a.Ticket, c.Ticket) })
	return out, nil
}

func (b *PaperBroker) ClosePosition(_ context.Context, req models.CloseRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.positions[req.Ticket]
	if !ok {
		return fmt.Errorf("close #%d: no such position: %w", req.Ticket, ErrRejected)
	}
	if req.Side != "" && req.Side != p.Side.Opposite() {
		return fmt.Errorf("close #%d: side %s does not offset %s: %w", req.Ticket, req.Side, p.Side, ErrRejected)
	}
	b.balance += b.profitLocked(p)
	delete(b.positions, req.Ticket)
	return nil
}

func (b *PaperBroker) Account(_ context.Context) (models.AccountSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	equity := b.balance
	for _, p := range b.positions {
		equity += b.profitLocked(p)
	}
	return models.AccountSnapshot{
		Name:     "Paper Account",
		Login:    1,
		Server:   "paper",
		Balance:  b.balance,
		Equity:   equity,
		Currency: "USD",
	}, nil
}

func tfStep(tf models.Timeframe) time.Duration {
	if tf == models.TimeframeH1 {
		return time.Hour
	}
	return time.Minute
}

// Candles генерирует блуждание, которое заканчивается на текущей mid-цене.
func (b *PaperBroker) Candles(_ context.Context, symbol string, tf models.Timeframe, count int) ([]models.Candle, error) {
	step := tfStep(tf)
	end := b.now().Truncate(step)
	return b.walk(symbol, end.Add(-time.Duration(count-1)*step), step, count)
}

func (b *PaperBroker) CandlesRange(_ context.Context, symbol string, tf models.Timeframe, from, to time.Time) ([]models.Candle, error) {
	step := tfStep(tf)
	start := from.Truncate(step)
	if start.Before(from) {
		start = start.Add(step)
	}
	if !to.After(start) {
		return nil, fmt.Errorf("candles %s %s..%s: %w", symbol, from, to, ErrNoData)
	}
	return b.walk(symbol, start, step, int(to.Sub(start)/step)+1)
}

func (b *PaperBroker) walk(symbol string, start time.Time, step time.Duration, count int) ([]models.Candle, error) {
	if count <= 0 {
		return nil, fmt.Errorf("candles %s: %w", symbol, ErrNoData)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	mid, ok := b.mids[symbol]
	if !ok {
		return nil, fmt.Errorf("candles %s: %w", symbol, ErrNoData)
	}

	closes := make([]float64, count)
	closes[count-1] = mid
	for i := count - 2; i >= 0; i-- {
		closes[i] = math.Max(b.cfg.Point, closes[i+1]-b.rng.NormFloat64()*b.cfg.StepStdDev)
	}

	out := make([]models.Candle, count)
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		wick := math.Abs(b.rng.NormFloat64()) * b.cfg.StepStdDev
		out[i] = models.Candle{
			Time:  start.Add(time.Duration(i) * step),
			Open:  open,
			High:  math.Max(open, c) + wick,
			Low:   math.Max(b.cfg.Point, math.Min(open, c)-wick),
			Close: c,
		}
	}
	return out, nil
}
