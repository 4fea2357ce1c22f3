package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ares_bot/internal/models"
	"ares_bot/internal/strategy"
)

type stubAnalyzer struct {
	fail map[string]bool
}

func (a stubAnalyzer) Analyze(_ context.Context, symbol string) (models.MarketSnapshot, error) {
	if a.fail[symbol] {
		return models.MarketSnapshot{}, strategy.ErrNotEnoughData
	}
	return models.MarketSnapshot{Symbol: symbol}, nil
}

type stubConn struct{ err error }

func (c stubConn) Connect(context.Context) error { return c.err }

type recorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recorder) Notify(_, body string) {
	r.mu.Lock()
	r.bodies = append(r.bodies, body)
	r.mu.Unlock()
}

func TestWarmupKeepsOrderAndSkipsFailures(t *testing.T) {
	rec := &recorder{}
	w := NewWarmuper(stubAnalyzer{fail: map[string]bool{"Boom 900 Index": true}}, stubConn{}, rec)

	ready, err := w.Warmup(context.Background(), models.Symbols)
	require.NoError(t, err)

	want := make([]string, 0, len(models.Symbols))
	for _, s := range models.Symbols {
		if s != "Boom 900 Index" {
			want = append(want, s)
		}
	}
	assert.Equal(t, want, ready)
	assert.Equal(t, []string{"✅ 5/6 symbols ready"}, rec.bodies)
}

func TestWarmupConnectFailure(t *testing.T) {
	boom := errors.New("bridge down")
	rec := &recorder{}
	w := NewWarmuper(stubAnalyzer{}, stubConn{err: boom}, rec)

	ready, err := w.Warmup(context.Background(), models.Symbols)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, ready)
	require.Len(t, rec.bodies, 1)
	assert.Contains(t, rec.bodies[0], "bridge down")
}
