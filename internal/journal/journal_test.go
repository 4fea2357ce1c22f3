package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ares_bot/internal/models"
	"ares_bot/pkg/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("journal"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	require.NoError(t, err)
	tm := db.NewPgTxManager(pool)
	t.Cleanup(tm.Close)

	s := NewStore(tm)
	require.NoError(t, s.Migrate(ctx))
	// миграция идемпотентна
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestStoreRecordsOpenAndExit(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	openedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return openedAt.Add(time.Minute) }

	req := models.OrderRequest{
		Symbol: "Crash 1000 Index", Side: models.SideSell, Volume: 0.2,
		StopDistance: 2.5, StrategyID: 100400, Comment: "Resistance Zone",
	}
	require.NoError(t, s.RecordOpen(ctx, req, models.Fill{Ticket: 11, FillPrice: 7000.5, FilledAt: openedAt}))

	pos := models.Position{Ticket: 11, Symbol: "Crash 1000 Index", Side: models.SideSell, Volume: 0.2, StrategyID: 100400, Profit: 0.62}
	closeReq := models.CloseRequest{Ticket: 11, Symbol: pos.Symbol, Side: models.SideBuy, Volume: 0.2, Price: 6997.4, StrategyID: 100400, Comment: "Scalp Exit"}
	require.NoError(t, s.RecordExit(ctx, pos, closeReq))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, KindExit, entries[0].Kind)
	assert.Equal(t, models.SideBuy, entries[0].Side)
	assert.Equal(t, 0.62, entries[0].Profit)
	assert.Equal(t, "Scalp Exit", entries[0].Comment)

	assert.Equal(t, KindOpen, entries[1].Kind)
	assert.Equal(t, int64(11), entries[1].Ticket)
	assert.Equal(t, 7000.5, entries[1].Price)
	assert.Equal(t, "Resistance Zone", entries[1].Comment)
	assert.True(t, openedAt.Equal(entries[1].CreatedAt))
}

func TestNopJournal(t *testing.T) {
	var j Journal = Nop{}
	assert.NoError(t, j.RecordOpen(context.Background(), models.OrderRequest{}, models.Fill{}))
	assert.NoError(t, j.RecordExit(context.Background(), models.Position{}, models.CloseRequest{}))

	var r Reader = Nop{}
	entries, err := r.Recent(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

var (
	_ Reader  = (*Store)(nil)
	_ Journal = (*Store)(nil)
)
