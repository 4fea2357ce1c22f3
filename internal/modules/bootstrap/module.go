package bootstrap

import (
	"context"

	"go.uber.org/fx"

	"ares_bot/internal/modules/bootstrap/service"
	"ares_bot/internal/modules/config"
	"ares_bot/internal/notify"
	"ares_bot/internal/runner"
	"ares_bot/internal/strategy"
	"ares_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			func(a strategy.Analyzer, r *runner.Runner, n notify.Notifier) *service.Warmuper {
				return service.NewWarmuper(a, r, n)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, settings *config.Settings, wu *service.Warmuper) {
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					// автостарт сам подключается к счёту
					if cfg.Engine.Autostart {
						return nil
					}
					go func() {
						syms := settings.ActiveSymbols()
						ready, err := wu.Warmup(ctx, syms)
						if err != nil {
							logger.Warn("[BOOT] warmup error: %v", err)
							return
						}
						logger.Info("[BOOT] warmup done: %d/%d symbols", len(ready), len(syms))
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
