package simulation

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"ares_bot/internal/models"
)

const DefaultReportDir = "reports"

// StressTest — Monte Carlo прогон, помесячная разбивка и таблица разорения в одном отчёте.
func (s *Simulator) StressTest(symbol string, p Params, now time.Time) models.StressReport {
	p = p.withDefaults()
	run := s.MonteCarlo(p, now)

	return models.StressReport{
		Symbol:         symbol,
		GeneratedAt:    now,
		Ledger:         run.Ledger,
		Monthly:        Monthly(run.Ledger),
		MaxDrawdownPct: run.MaxDrawdownPct,
		Ruin:           s.RuinProbability(p, RuinBalances),
		NetProfit:      run.FinalBalance - p.StartBalance,
		WinRate:        winRate(run.Ledger),
		FinalBalance:   run.FinalBalance,
		TradeCount:     len(run.Ledger),
		Terminated:     run.Terminated,
	}
}

// ReportFileName — StressTest_HHMMSS.json по времени генерации.
func ReportFileName(at time.Time) string {
	return "StressTest_" + at.Format("150405") + ".json"
}

// WriteReport сериализует отчёт в dir и возвращает путь к файлу.
func WriteReport(dir string, report models.StressReport) (string, error) {
	if dir == "" {
		dir = DefaultReportDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create report dir %s", dir)
	}

	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode stress report")
	}

	path := filepath.Join(dir, ReportFileName(report.GeneratedAt))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}
