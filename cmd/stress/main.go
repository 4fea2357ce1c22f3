package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"ares_bot/internal/exchange"
	"ares_bot/internal/models"
	"ares_bot/internal/modules/config"
	"ares_bot/internal/simulation"
	"ares_bot/pkg/logger"
)

func main() {
	defaults := simulation.DefaultParams()

	var (
		mode    = flag.String("mode", "stress", "stress | backtest")
		symbol  = flag.String("symbol", "", "report title (stress, default Portfolio) or feed symbol (backtest, default "+models.Symbols[0]+")")
		days    = flag.Int("days", simulation.DefaultBacktestDays, "backtest lookback in days")
		balance = flag.Float64("balance", defaults.StartBalance, "starting balance")
		winRate = flag.Float64("winrate", defaults.WinRate, "probability of a winning trade")
		rr      = flag.Float64("rr", defaults.RewardRatio, "reward to risk ratio")
		risk    = flag.Float64("risk", defaults.Risk, "fraction of balance risked per trade")
		trials  = flag.Int("trials", defaults.RuinTrials, "ruin trials per starting balance")
		seed    = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
		out     = flag.String("out", simulation.DefaultReportDir, "report directory")
	)
	flag.Parse()

	sym, err := symbolFor(*mode, *symbol)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init("ares_stress", cfg.Service.Debug); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sim := simulation.New(*seed)

	switch *mode {
	case "stress":
		p := simulation.Params{
			StartBalance: *balance,
			WinRate:      *winRate,
			RewardRatio:  *rr,
			Risk:         *risk,
			RuinTrials:   *trials,
		}
		report := sim.StressTest(sym, p, time.Now())
		path, err := simulation.WriteReport(*out, report)
		if err != nil {
			logger.Fatal("[STRESS] %v", err)
		}
		logger.Info("[STRESS] %s: net %.2f, win rate %.1f%%, max dd %.2f%%, %d trades -> %s",
			report.Symbol, report.NetProfit, report.WinRate, report.MaxDrawdownPct, report.TradeCount, path)

	case "backtest":
		feed, closeFeed := newFeed(cfg)
		defer closeFeed()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sum, err := sim.Backtest(ctx, feed, sym, *days, time.Now())
		if err != nil {
			logger.Fatal("[BACKTEST] %v", err)
		}
		data, err := sonic.ConfigStd.MarshalIndent(sum, "", "  ")
		if err != nil {
			logger.Fatal("[BACKTEST] %v", err)
		}
		_, _ = os.Stdout.Write(append(data, '\n'))

	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

const stressTitle = "Portfolio"

// symbolFor подставляет символ по умолчанию для режима. Бэктест идёт только по известному индексу.
func symbolFor(mode, symbol string) (string, error) {
	switch mode {
	case "backtest":
		if symbol == "" {
			return models.Symbols[0], nil
		}
		if !models.IsKnownSymbol(symbol) {
			return "", fmt.Errorf("backtest needs a known symbol, got %q", symbol)
		}
		return symbol, nil
	default:
		if symbol == "" {
			return stressTitle, nil
		}
		return symbol, nil
	}
}

func newFeed(cfg *config.Config) (simulation.RangeFeed, func()) {
	if cfg.Gateway.Mode == config.GatewayBridge && cfg.Gateway.BridgeURL != "" {
		b := exchange.NewBridge(cfg.Gateway.BridgeURL, cfg.Gateway.RequestTimeout)
		return b, func() { _ = b.Close() }
	}
	pc := exchange.DefaultPaperConfig()
	pc.Seed = cfg.Gateway.PaperSeed
	return exchange.NewPaperBroker(pc), func() {}
}
