package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"ares_bot/internal/journal"
	"ares_bot/internal/modules/config"
	"ares_bot/pkg/db"
	"ares_bot/pkg/logger"
)

type Result struct {
	fx.Out

	Journal journal.Journal
	Reader  journal.Reader
}

// NewJournal поднимает пул и схему журнала; без DSN журнал пишет в никуда.
func NewJournal(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (Result, error) {
	if cfg.DB == "" {
		logger.Info("[JOURNAL] db_dsn is empty, journal disabled")
		return Result{Journal: journal.Nop{}, Reader: journal.Nop{}}, nil
	}

	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN:      cfg.DB,
		MaxConns: 4,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	if err = poolMaster.Ping(ctx); err != nil {
		poolMaster.Close()
		return Result{}, err
	}

	tm := db.NewPgTxManager(poolMaster)
	store := journal.NewStore(tm)
	if err := store.Migrate(ctx); err != nil {
		tm.Close()
		return Result{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			tm.Close()
			return nil
		},
	})
	return Result{Journal: store, Reader: store}, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(NewJournal),
	)
}
