package exchange

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"ares_bot/internal/modules/config"
	"ares_bot/pkg/logger"
)

// NewBroker выбирает реализацию по gateway.mode.
func NewBroker(lc fx.Lifecycle, cfg *config.Config) (Broker, error) {
	switch cfg.Gateway.Mode {
	case config.GatewayBridge:
		if cfg.Gateway.BridgeURL == "" {
			return nil, fmt.Errorf("gateway.bridge_url is required in bridge mode")
		}
		b := NewBridge(cfg.Gateway.BridgeURL, cfg.Gateway.RequestTimeout)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return b.Close() },
		})
		logger.Info("[GATEWAY] bridge %s", cfg.Gateway.BridgeURL)
		return b, nil

	case config.GatewayPaper, "":
		pc := DefaultPaperConfig()
		if cfg.Gateway.PaperBalance > 0 {
			pc.StartBalance = cfg.Gateway.PaperBalance
		}
		pc.Seed = cfg.Gateway.PaperSeed
		p := NewPaperBroker(pc)

		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go p.Run(ctx, time.Second)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
		logger.Info("[GATEWAY] paper, balance %.2f", pc.StartBalance)
		return p, nil

	default:
		return nil, fmt.Errorf("unknown gateway mode %q", cfg.Gateway.Mode)
	}
}

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			NewBroker,
			func(b Broker) CandleFeed { return b },
			func(b Broker) OrderGateway { return b },
			func(b Broker) AccountSource { return b },
		),
	)
}
