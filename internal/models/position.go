package models

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite — сторона закрывающего ордера.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type Quote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Position принадлежит OrderGateway, ядро её только читает.
type Position struct {
	Ticket     int64     `json:"ticket"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Volume     float64   `json:"volume"`
	EntryPrice float64   `json:"entry_price"`
	StopPrice  float64   `json:"stop_price"`
	OpenTime   time.Time `json:"open_time"`
	StrategyID int64     `json:"strategy_id"`
	Profit     float64   `json:"profit"`
}

// OrderRequest — рыночный вход.
type OrderRequest struct {
	Symbol       string  `json:"symbol"`
	Side         Side    `json:"side"`
	Volume       float64 `json:"volume"`
	Price        float64 `json:"price"`
	StopPrice    float64 `json:"stop_price"`
	StopDistance float64 `json:"stop_distance"`
	Deviation    int     `json:"deviation"`
	StrategyID   int64   `json:"strategy_id"`
	Comment      string  `json:"comment"`
}

// CloseRequest — встречный ордер на полный объём позиции.
type CloseRequest struct {
	Ticket     int64   `json:"ticket"`
	Symbol     string  `json:"symbol"`
	Side       Side    `json:"side"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	StrategyID int64   `json:"strategy_id"`
	Comment    string  `json:"comment"`
}

type Fill struct {
	Ticket    int64     `json:"ticket"`
	FillPrice float64   `json:"fill_price"`
	FilledAt  time.Time `json:"filled_at"`
}
