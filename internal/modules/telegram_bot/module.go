package telegram

import (
	"context"

	"go.uber.org/fx"

	"ares_bot/internal/modules/config"
	"ares_bot/internal/modules/telegram_bot/service"
	"ares_bot/internal/runner"
	"ares_bot/pkg/logger"
)

// Module — пульт движка в Telegram. Без токена модуль ничего не делает.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Invoke(
			func(lc fx.Lifecycle, cfg *config.Config, r *runner.Runner, settings *config.Settings) {
				if cfg.Telegram.Token == "" {
					logger.Info("[TELEGRAM] token is empty, console disabled")
					return
				}

				var console *service.Console
				ctx, cancel := context.WithCancel(context.Background())
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						c, err := service.NewConsole(cfg, r, settings)
						if err != nil {
							// уведомления и HTTP работают и без пульта
							logger.Error("[TELEGRAM] console: %v", err)
							return nil
						}
						console = c
						console.Start(ctx)
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						if console != nil {
							console.Stop()
						}
						return nil
					},
				})
			},
		),
	)
}
