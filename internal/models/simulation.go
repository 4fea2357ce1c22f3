package models

import "time"

// LedgerEntry — одна смоделированная сделка.
type LedgerEntry struct {
	Time    time.Time `json:"time"`
	PnL     float64   `json:"pnl"`
	Balance float64   `json:"balance"`
}

type MonthlyAggregate struct {
	Month     string  `json:"month"` // YYYY-MM
	NetProfit float64 `json:"net_profit"`
	Trades    int     `json:"trades"`
}

type RuinEstimate struct {
	StartBalance float64 `json:"start_balance"`
	Probability  float64 `json:"probability_pct"`
}

// SimulationRun — результат одного прогона Monte Carlo.
type SimulationRun struct {
	StartBalance   float64       `json:"start_balance"`
	Ledger         []LedgerEntry `json:"ledger"`
	FinalBalance   float64       `json:"final_balance"`
	MaxDrawdownPct float64       `json:"max_drawdown_pct"`
	Terminated     bool          `json:"terminated"` // баланс ушёл в ноль раньше горизонта
}

// StressReport — контракт отчёта для внешнего рендера.
type StressReport struct {
	Symbol         string             `json:"symbol"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Ledger         []LedgerEntry      `json:"ledger"`
	Monthly        []MonthlyAggregate `json:"monthly"`
	MaxDrawdownPct float64            `json:"max_drawdown_pct"`
	Ruin           []RuinEstimate     `json:"ruin"`
	NetProfit      float64            `json:"net_profit"`
	WinRate        float64            `json:"win_rate_pct"`
	FinalBalance   float64            `json:"final_balance"`
	TradeCount     int                `json:"trade_count"`
	Terminated     bool               `json:"terminated"`
}

// BacktestSummary — итог упрощённого (не авторитетного) бэктеста.
type BacktestSummary struct {
	Symbol       string  `json:"symbol"`
	NetProfit    float64 `json:"net_profit"`
	WinRate      float64 `json:"win_rate_pct"`
	FinalBalance float64 `json:"final_balance"`
	TradeCount   int     `json:"trade_count"`
}
