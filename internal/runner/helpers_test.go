package runner

import (
	"context"
	"sync"
	"sync/atomic"

	"ares_bot/internal/exchange"
	"ares_bot/internal/models"
)

type stubAnalyzer struct {
	mu    sync.Mutex
	snap  models.MarketSnapshot
	err   error
	panic bool
	calls int
}

func (a *stubAnalyzer) Analyze(_ context.Context, symbol string) (models.MarketSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.panic {
		panic("indicator blew up")
	}
	s := a.snap
	s.Symbol = symbol
	return s, a.err
}

type stubSettings struct {
	lot     float64
	symbols []string
}

func (s stubSettings) LotSize() float64        { return s.lot }
func (s stubSettings) ActiveSymbols() []string { return s.symbols }

type recorder struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
}

func (r *recorder) Notify(subject, body string) {
	r.mu.Lock()
	r.subjects = append(r.subjects, subject)
	r.bodies = append(r.bodies, body)
	r.mu.Unlock()
}

func (r *recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.subjects...)
}

// fakeGateway отдаёт заданные позиции и пишет закрытия.
type fakeGateway struct {
	mu        sync.Mutex
	positions []models.Position
	quote     models.Quote
	closed    []models.CloseRequest
	listErr   error
	closeErr  map[int64]error
}

func (g *fakeGateway) Quote(context.Context, string) (models.Quote, error) { return g.quote, nil }

func (g *fakeGateway) OpenPosition(context.Context, models.OrderRequest) (models.Fill, error) {
	return models.Fill{}, exchange.ErrRejected
}

func (g *fakeGateway) OpenPositions(context.Context, []int64) ([]models.Position, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.positions, nil
}

func (g *fakeGateway) ClosePosition(_ context.Context, req models.CloseRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.closeErr[req.Ticket]; err != nil {
		return err
	}
	g.closed = append(g.closed, req)
	return nil
}

// scriptedAccount отдаёт ошибки из очереди, потом снимок.
type scriptedAccount struct {
	mu    sync.Mutex
	errs  []error
	calls atomic.Int64
	snap  models.AccountSnapshot
}

func (a *scriptedAccount) Account(context.Context) (models.AccountSnapshot, error) {
	a.calls.Add(1)
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		if err != nil {
			return models.AccountSnapshot{}, err
		}
	}
	return a.snap, nil
}

// blockingAccount один раз блокирует вызов, пока тест не отпустит.
type blockingAccount struct {
	block   atomic.Bool
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newBlockingAccount() *blockingAccount {
	return &blockingAccount{entered: make(chan struct{}), release: make(chan struct{})}
}

func (a *blockingAccount) Account(context.Context) (models.AccountSnapshot, error) {
	if a.block.Load() {
		a.once.Do(func() {
			close(a.entered)
			<-a.release
		})
	}
	return models.AccountSnapshot{Name: "Demo", Login: 7, Server: "demo", Balance: 1000, Equity: 1000, Currency: "USD"}, nil
}

func bullishSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		Support:    1000,
		HasSupport: true,
		Indicators: models.IndicatorSnapshot{
			EMAFast: 1010, EMAMid: 1005, EMASlow: 1000,
			RSI: 50, ATR: 2, VolExpanding: true,
		},
	}
}
