package journal

import (
	"context"
	_ "embed"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"ares_bot/internal/models"
	"ares_bot/pkg/db"
)

//go:embed schema.sql
var schema string

const (
	KindOpen = "open"
	KindExit = "exit"
)

// Journal — журнал сделок движка.
type Journal interface {
	RecordOpen(ctx context.Context, req models.OrderRequest, fill models.Fill) error
	RecordExit(ctx context.Context, pos models.Position, req models.CloseRequest) error
}

// Reader отдаёт последние записи журнала, новые первыми.
type Reader interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type Entry struct {
	Kind       string      `json:"kind"`
	Ticket     int64       `json:"ticket"`
	Symbol     string      `json:"symbol"`
	Side       models.Side `json:"side"`
	Volume     float64     `json:"volume"`
	Price      float64     `json:"price"`
	StrategyID int64       `json:"strategy_id"`
	Comment    string      `json:"comment"`
	Profit     float64     `json:"profit"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Nop — журнал без базы.
type Nop struct{}

func (Nop) RecordOpen(context.Context, models.OrderRequest, models.Fill) error     { return nil }
func (Nop) RecordExit(context.Context, models.Position, models.CloseRequest) error { return nil }
func (Nop) Recent(context.Context, int) ([]Entry, error)                           { return nil, nil }

// Store пишет журнал в Postgres.
type Store struct {
	tx  db.TxManager
	now func() time.Time
}

func NewStore(tx db.TxManager) *Store {
	return &Store{tx: tx, now: time.Now}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.tx.Conn().Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "[JOURNAL] migrate")
	}
	return nil
}

func (s *Store) RecordOpen(ctx context.Context, req models.OrderRequest, fill models.Fill) error {
	at := fill.FilledAt
	if at.IsZero() {
		at = s.now()
	}
	return s.insert(ctx, Entry{
		Kind:       KindOpen,
		Ticket:     fill.Ticket,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Volume:     req.Volume,
		Price:      fill.FillPrice,
		StrategyID: req.StrategyID,
		Comment:    req.Comment,
		CreatedAt:  at,
	}, req)
}

func (s *Store) RecordExit(ctx context.Context, pos models.Position, req models.CloseRequest) error {
	return s.insert(ctx, Entry{
		Kind:       KindExit,
		Ticket:     pos.Ticket,
		Symbol:     pos.Symbol,
		Side:       req.Side,
		Volume:     req.Volume,
		Price:      req.Price,
		StrategyID: pos.StrategyID,
		Comment:    req.Comment,
		Profit:     pos.Profit,
		CreatedAt:  s.now(),
	}, pos)
}

func (s *Store) insert(ctx context.Context, e Entry, payload any) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "[JOURNAL] marshal payload")
	}

	const q = `INSERT INTO trade_journal
		(kind, ticket, symbol, side, volume, price, strategy_id, comment, profit, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	err = s.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, q,
			e.Kind, e.Ticket, e.Symbol, string(e.Side), e.Volume, e.Price,
			e.StrategyID, e.Comment, e.Profit, string(raw), e.CreatedAt)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "[JOURNAL] insert %s #%d", e.Kind, e.Ticket)
	}
	return nil
}

// Recent — последние записи, новые первыми.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const q = `SELECT kind, ticket, symbol, side, volume, price, strategy_id, comment, profit, created_at
		FROM trade_journal ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := s.tx.Conn().Query(ctx, q, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[JOURNAL] query recent")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			side string
		)
		if err := rows.Scan(&e.Kind, &e.Ticket, &e.Symbol, &side, &e.Volume, &e.Price,
			&e.StrategyID, &e.Comment, &e.Profit, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "[JOURNAL] scan")
		}
		e.Side = models.Side(side)
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "[JOURNAL] rows")
}
