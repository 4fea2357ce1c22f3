package runner

import (
	"context"
	"fmt"

	"ares_bot/internal/exchange"
	"ares_bot/internal/journal"
	"ares_bot/internal/models"
)

const (
	DefaultProfitThreshold = 0.50
	scalpExitComment       = "Scalp Exit"
)

// PositionManager закрывает позиции движка, чья плавающая прибыль строго выше порога.
// Каждая позиция закрывается отдельно, без неттинга по символу.
type PositionManager struct {
	gw          exchange.OrderGateway
	journal     journal.Journal
	threshold   float64
	strategyIDs []int64
	logf        func(format string, args ...any)
	onExit      func()
}

func NewPositionManager(gw exchange.OrderGateway, j journal.Journal, threshold float64) *PositionManager {
	if threshold <= 0 {
		threshold = DefaultProfitThreshold
	}
	if j == nil {
		j = journal.Nop{}
	}
	return &PositionManager{
		gw:          gw,
		journal:     j,
		threshold:   threshold,
		strategyIDs: models.StrategyIDs(),
		logf:        func(string, ...any) {},
		onExit:      func() {},
	}
}

// Run — один проход. Возвращает позиции, оставшиеся открытыми.
func (m *PositionManager) Run(ctx context.Context) ([]models.Position, error) {
	positions, err := m.gw.OpenPositions(ctx, m.strategyIDs)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	remaining := positions[:0:0]
	for _, p := range positions {
		if p.Profit <= m.threshold {
			remaining = append(remaining, p)
			continue
		}
		if err := m.closeOne(ctx, p); err != nil {
			m.logf("[EXIT] %s #%d close failed: %v", p.Symbol, p.Ticket, err)
			remaining = append(remaining, p)
		}
	}
	return remaining, nil
}

func (m *PositionManager) closeOne(ctx context.Context, p models.Position) error {
	q, err := m.gw.Quote(ctx, p.Symbol)
	if err != nil {
		return err
	}
	price := q.Bid
	if p.Side == models.SideSell {
		price = q.Ask
	}

	req := models.CloseRequest{
		Ticket:     p.Ticket,
		Symbol:     p.Symbol,
		Side:       p.Side.Opposite(),
		Volume:     p.Volume,
		Price:      price,
		StrategyID: p.StrategyID,
		Comment:    scalpExitComment,
	}
	if err := m.gw.ClosePosition(ctx, req); err != nil {
		return err
	}

	m.logf("💰 PROFIT: %s +$%.2f", p.Symbol, p.Profit)
	m.onExit()
	if err := m.journal.RecordExit(ctx, p, req); err != nil {
		m.logf("[JOURNAL] %v", err)
	}
	return nil
}
