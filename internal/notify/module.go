package notify

import (
	"context"

	"go.uber.org/fx"

	"ares_bot/internal/modules/config"
	"ares_bot/pkg/logger"
)

// NewNotifier собирает бэкенды: лог всегда, телеграм при наличии токена, почта по настройкам.
func NewNotifier(lc fx.Lifecycle, cfg *config.Config, settings *config.Settings) Notifier {
	backends := Multi{NewStdout(), NewEmail(settings)}

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warn("[NOTIFY] telegram disabled: %v", err)
		} else {
			backends = append(backends, tg)
		}
	}

	async := NewAsync(backends)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			async.Wait()
			return nil
		},
	})
	return async
}

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(NewNotifier),
	)
}
