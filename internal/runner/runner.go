package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"

	"ares_bot/internal/exchange"
	"ares_bot/internal/journal"
	"ares_bot/internal/metrics"
	"ares_bot/internal/models"
	"ares_bot/internal/notify"
	"ares_bot/internal/strategy"
	"ares_bot/pkg/logger"
)

var (
	ErrAlreadyRunning = errors.New("engine already running")
	ErrNotRunning     = errors.New("engine not running")
)

// Settings — пользовательские настройки, которые читает движок на каждом цикле.
type Settings interface {
	LotSize() float64
	ActiveSymbols() []string
}

type Config struct {
	Cadence         time.Duration
	ErrorBackoff    time.Duration
	ProfitThreshold float64
	Deviation       int
}

func DefaultConfig() Config {
	return Config{
		Cadence:         time.Second,
		ErrorBackoff:    5 * time.Second,
		ProfitThreshold: DefaultProfitThreshold,
		Deviation:       20,
	}
}

type Deps struct {
	Analyzer strategy.Analyzer
	Gateway  exchange.OrderGateway
	Account  exchange.AccountSource
	Settings Settings
	Notifier notify.Notifier
	Journal  journal.Journal
	Metrics  *metrics.Metrics
}

// Runner — цикл движка: эквити, выходы по прибыли, оценка символов.
// Один воркер пишет State; Start/Stop — единственные внешние команды.
type Runner struct {
	cfg      Config
	analyzer strategy.Analyzer
	gw       exchange.OrderGateway
	account  exchange.AccountSource
	settings Settings
	notifier notify.Notifier
	journal  journal.Journal
	metrics  *metrics.Metrics

	cooldown  *CooldownTracker
	positions *PositionManager
	state     *State
	now       func() time.Time

	mu      sync.Mutex // running/stop/done
	running bool
	stop    chan struct{}
	done    chan struct{}

	offline bool // только воркер: связь потеряна, уже залогировали
}

func New(cfg Config, d Deps) *Runner {
	if cfg.Cadence <= 0 {
		cfg.Cadence = time.Second
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 5 * time.Second
	}
	if d.Journal == nil {
		d.Journal = journal.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewStdout()
	}

	r := &Runner{
		cfg:      cfg,
		analyzer: d.Analyzer,
		gw:       d.Gateway,
		account:  d.Account,
		settings: d.Settings,
		notifier: d.Notifier,
		journal:  d.Journal,
		metrics:  d.Metrics,
		cooldown: NewCooldownTracker(),
		state:    NewState(),
		now:      time.Now,
	}
	r.positions = NewPositionManager(d.Gateway, d.Journal, cfg.ProfitThreshold)
	r.positions.logf = r.logf
	r.positions.onExit = r.metrics.ExitsTotal.Inc
	return r
}

// logf — в zap и в журнал движка для дашборда.
func (r *Runner) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Info("[ENGINE] %s", msg)
	r.state.AppendLog(r.now(), msg)
}

func (r *Runner) Snapshot() models.EngineSnapshot { return r.state.Snapshot() }

func (r *Runner) Status() models.EngineStatus { return r.state.Status() }

// Connect один раз тянет данные счёта.
func (r *Runner) Connect(ctx context.Context) error {
	acc, err := r.account.Account(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	r.state.SetAccount(acc)
	r.logf("Connected: %s #%d @ %s", acc.Name, acc.Login, acc.Server)
	return nil
}

// Start запускает воркер. Второй запуск при живом цикле — ErrAlreadyRunning.
// Если предыдущий воркер ещё доделывает итерацию после Stop, ждём его.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyRunning
	}
	if r.done != nil {
		select {
		case <-r.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !r.state.HasAccount() {
		if err := r.Connect(ctx); err != nil {
			return err
		}
	}

	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.offline = false
	r.state.SetStatus(models.StatusRunning)
	r.metrics.EngineRunning.Set(1)

	r.logf("🚀 Engine Started. Scanning Markets...")
	r.notifier.Notify("Ares Bot Started", "Engine Online")

	// цикл живёт дольше запроса, который его запустил
	go r.loop(context.WithoutCancel(ctx), r.stop, r.done)
	return nil
}

// Stop сразу переводит статус в STOPPED; текущая итерация доработает до конца.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return ErrNotRunning
	}
	r.running = false
	close(r.stop)
	r.state.SetStatus(models.StatusStopped)
	r.metrics.EngineRunning.Set(0)

	r.logf("🛑 Engine Stopped.")
	r.notifier.Notify("Ares Bot Stopped", "Engine Offline")
	return nil
}

// Wait ждёт выхода воркера.
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown — Stop (если запущен) и ожидание воркера.
func (r *Runner) Shutdown(ctx context.Context) error {
	if err := r.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return r.Wait(ctx)
}

func (r *Runner) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		select {
		case <-stop:
			return
		default:
		}

		wait := r.cfg.Cadence
		if err := r.safeTick(ctx); err != nil {
			switch {
			case errors.Is(err, exchange.ErrConnectivity):
				if !r.offline {
					r.logf("⚠️ Connection lost, skipping cycles: %v", err)
					r.offline = true
				}
			default:
				r.metrics.TickErrors.Inc()
				r.logf("⚠️ Error: %v", err)
				wait = r.cfg.ErrorBackoff
			}
		} else if r.offline {
			r.offline = false
			r.logf("Connection restored")
		}

		timer.Reset(wait)
		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

func (r *Runner) safeTick(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in tick: %v", p)
		}
	}()
	return r.tick(ctx)
}

func (r *Runner) tick(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "engine.tick")
	defer span.Finish()
	started := time.Now()
	defer func() { r.metrics.TickDuration.Observe(time.Since(started).Seconds()) }()

	acc, err := r.account.Account(ctx)
	if err != nil {
		return fmt.Errorf("account: %w", err)
	}
	_, dd := r.state.RecordEquity(r.now(), acc.Balance, acc.Equity)
	r.metrics.Equity.Set(acc.Equity)
	r.metrics.DrawdownPct.Set(dd)

	open, err := r.positions.Run(ctx)
	if err != nil {
		return err
	}
	positioned := make(map[string]bool, len(open))
	for _, p := range open {
		positioned[p.Symbol] = true
	}

	for _, symbol := range r.settings.ActiveSymbols() {
		st := r.classify(symbol, positioned)
		r.state.SetSymbolState(symbol, st)
		if st != models.StateArmed {
			continue
		}

		if _, err := r.Evaluate(ctx, symbol, false); err != nil {
			if errors.Is(err, exchange.ErrConnectivity) {
				return err
			}
			if !errors.Is(err, exchange.ErrRejected) {
				logger.Warn("[ENGINE] %s: %v", symbol, err)
			}
		}
	}

	r.state.IncTicks()
	r.metrics.TicksTotal.Inc()
	return nil
}
