package config

import "go.uber.org/fx"

// Module отдаёт конфиг сервиса и пользовательские настройки.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
			NewSettings,
		),
	)
}
