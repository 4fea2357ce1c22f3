package runner

import (
	"context"

	"go.uber.org/fx"

	"ares_bot/internal/exchange"
	"ares_bot/internal/journal"
	"ares_bot/internal/metrics"
	"ares_bot/internal/modules/config"
	"ares_bot/internal/notify"
	"ares_bot/internal/strategy"
	"ares_bot/pkg/logger"
)

type params struct {
	fx.In

	Cfg      *config.Config
	Settings *config.Settings
	Analyzer strategy.Analyzer
	Gateway  exchange.OrderGateway
	Account  exchange.AccountSource
	Notifier notify.Notifier
	Journal  journal.Journal
	Metrics  *metrics.Metrics
}

func NewRunner(p params) *Runner {
	return New(Config{
		Cadence:         p.Cfg.Engine.Cadence,
		ErrorBackoff:    p.Cfg.Engine.ErrorBackoff,
		ProfitThreshold: p.Cfg.Engine.ProfitThreshold,
		Deviation:       p.Cfg.Engine.Deviation,
	}, Deps{
		Analyzer: p.Analyzer,
		Gateway:  p.Gateway,
		Account:  p.Account,
		Settings: p.Settings,
		Notifier: p.Notifier,
		Journal:  p.Journal,
		Metrics:  p.Metrics,
	})
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewRunner,
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner, cfg *config.Config) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if !cfg.Engine.Autostart {
						return nil
					}
					if err := r.Start(ctx); err != nil {
						// без связи сервис поднимается, движок стартуют через /engine/start
						logger.Error("[RUNNER] autostart failed: %v", err)
					}
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return r.Shutdown(ctx)
				},
			})
		}),
	)
}
