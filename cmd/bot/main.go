package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"ares_bot/internal/exchange"
	"ares_bot/internal/metrics"
	"ares_bot/internal/modules/bootstrap"
	"ares_bot/internal/modules/config"
	"ares_bot/internal/modules/health"
	"ares_bot/internal/modules/postgres"
	telegram "ares_bot/internal/modules/telegram_bot"
	"ares_bot/internal/notify"
	"ares_bot/internal/runner"
	"ares_bot/internal/strategy"
	"ares_bot/pkg/logger"
	"ares_bot/pkg/tracing"
)

// observability поднимает логгер и трейсер раньше остальных модулей.
func observability() fx.Option {
	return fx.Module("observability",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if err := logger.Init(cfg.Service.Name, cfg.Service.Debug); err != nil {
				return err
			}
			tracing.SetServiceName(cfg.Service.Name)
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Enabled: cfg.Tracing.Enabled,
				Host:    cfg.Tracing.Host,
				Port:    cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					logger.Sync()
					return nil
				},
			})
			return nil
		}),
	)
}

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		observability(),
		metrics.Module(),
		exchange.Module(),
		strategy.Module(),
		notify.Module(),
		postgres.Module(),
		runner.Module(),
		health.Module(),
		telegram.Module(),
		bootstrap.Module(),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	sig := <-app.Wait()
	logger.Info("[MAIN] shutdown on %v", sig.Signal)

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
