package runner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ares_bot/internal/models"
)

func TestStateDrawdown(t *testing.T) {
	s := NewState()
	t0 := time.Unix(0, 0)

	peak, dd := s.RecordEquity(t0, 1000, 1000)
	assert.Equal(t, 1000.0, peak)
	assert.Zero(t, dd)

	peak, dd = s.RecordEquity(t0.Add(time.Second), 1000, 1200)
	assert.Equal(t, 1200.0, peak)
	assert.Zero(t, dd)

	peak, dd = s.RecordEquity(t0.Add(2*time.Second), 1000, 900)
	assert.Equal(t, 1200.0, peak)
	assert.InDelta(t, 25.0, dd, 1e-9)

	snap := s.Snapshot()
	require.NotNil(t, snap.Account)
	assert.Equal(t, 900.0, snap.Account.Equity)
	assert.InDelta(t, 25.0, snap.DrawdownPct, 1e-9)
}

func TestStateBuffersAreBounded(t *testing.T) {
	s := NewState()
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range 150 {
		at := t0.Add(time.Duration(i) * time.Second)
		s.RecordEquity(at, 1000, float64(1000+i))
		s.AppendLog(at, fmt.Sprintf("line %d", i))
	}

	snap := s.Snapshot()
	require.Len(t, snap.Equity, 100)
	require.Len(t, snap.Logs, 100)

	// эквити: старые сверху, логи: новые сверху
	assert.Equal(t, 1050.0, snap.Equity[0].Value)
	assert.Equal(t, 1149.0, snap.Equity[99].Value)
	assert.Equal(t, "[09:02:29] line 149", snap.Logs[0])
	assert.Equal(t, "[09:00:50] line 50", snap.Logs[99])
}

func TestStateSnapshotIsACopy(t *testing.T) {
	s := NewState()
	s.SetSymbolState("Boom 500 Index", models.StateArmed)
	s.SetAccount(models.AccountSnapshot{Name: "Demo", Balance: 10})

	snap := s.Snapshot()
	snap.Symbols["Boom 500 Index"] = models.StateIdle
	snap.Account.Balance = 99

	again := s.Snapshot()
	assert.Equal(t, models.StateArmed, again.Symbols["Boom 500 Index"])
	assert.Equal(t, 10.0, again.Account.Balance)
	assert.Equal(t, models.StatusOffline, again.Status)
}
