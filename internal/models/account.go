package models

import "time"

type EngineStatus string

const (
	StatusOffline EngineStatus = "OFFLINE"
	StatusRunning EngineStatus = "RUNNING"
	StatusStopped EngineStatus = "STOPPED"
)

type AccountSnapshot struct {
	Name     string  `json:"name"`
	Login    int64   `json:"login"`
	Server   string  `json:"server"`
	Balance  float64 `json:"balance"`
	Equity   float64 `json:"equity"`
	Currency string  `json:"currency"`
}

type EquitySample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// EngineSnapshot — неизменяемая копия состояния движка для читателей (HTTP, дашборд).
type EngineSnapshot struct {
	Status      EngineStatus     `json:"status"`
	Account     *AccountSnapshot `json:"account,omitempty"`
	Logs        []string         `json:"logs"`   // новые сверху
	Equity      []EquitySample   `json:"equity"` // старые сверху
	PeakEquity  float64          `json:"peak_equity"`
	DrawdownPct float64          `json:"drawdown_pct"`
	Ticks       int64            `json:"ticks"`

	Symbols map[string]SymbolState `json:"symbols"`
}
