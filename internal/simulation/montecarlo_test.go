package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMonteCarloAlwaysWinning(t *testing.T) {
	p := DefaultParams()
	p.WinRate = 1.0

	run := New(1).MonteCarlo(p, epoch)

	require.Len(t, run.Ledger, 300)
	assert.False(t, run.Terminated)
	assert.Zero(t, run.MaxDrawdownPct)

	prev := p.StartBalance
	for i, e := range run.Ledger {
		assert.Greater(t, e.Balance, prev, "step %d", i)
		assert.InDelta(t, prev*0.04, e.PnL, 1e-9)
		assert.Equal(t, epoch.Add(time.Duration(i+1)*4*time.Hour), e.Time)
		prev = e.Balance
	}
	assert.Equal(t, prev, run.FinalBalance)
}

func TestMonteCarloAlwaysLosing(t *testing.T) {
	p := DefaultParams()
	p.WinRate = 0

	run := New(2).MonteCarlo(p, epoch)
	require.Len(t, run.Ledger, 300, "two percent risk never reaches zero")
	prev := p.StartBalance
	for _, e := range run.Ledger {
		assert.Less(t, e.Balance, prev)
		prev = e.Balance
	}
	assert.False(t, run.Terminated)

	p.Risk = 1.0
	run = New(2).MonteCarlo(p, epoch)
	require.Len(t, run.Ledger, 1)
	assert.True(t, run.Terminated)
	assert.Zero(t, run.FinalBalance)
	assert.InDelta(t, 100.0, run.MaxDrawdownPct, 1e-9)
}

func TestMonteCarloDrawdownMatchesLedger(t *testing.T) {
	run := New(7).MonteCarlo(DefaultParams(), epoch)

	peak, maxDD := run.StartBalance, 0.0
	for _, e := range run.Ledger {
		peak = max(peak, e.Balance)
		maxDD = max(maxDD, (peak-e.Balance)/peak*100)
	}
	assert.InDelta(t, maxDD, run.MaxDrawdownPct, 1e-9)
	assert.Greater(t, run.MaxDrawdownPct, 0.0)
}

func TestMonteCarloIsDeterministicForSeed(t *testing.T) {
	a := New(99).MonteCarlo(DefaultParams(), epoch)
	b := New(99).MonteCarlo(DefaultParams(), epoch)
	assert.Equal(t, a, b)
}

func TestRuinProbabilityTable(t *testing.T) {
	p := DefaultParams()
	p.WinRate = 0.5
	p.Risk = 0.1

	// усредняем по нескольким сидам, чтобы один прогон не решал исход
	seeds := []uint64{2024, 7, 31, 1001, 424242}
	avg := make([]float64, len(RuinBalances))
	for _, seed := range seeds {
		est := New(seed).RuinProbability(p, nil)
		require.Len(t, est, len(RuinBalances))

		for i, want := range []float64{500, 1000, 2000, 5000} {
			assert.Equal(t, want, est[i].StartBalance)
			assert.GreaterOrEqual(t, est[i].Probability, 0.0)
			assert.LessOrEqual(t, est[i].Probability, 100.0)
			avg[i] += est[i].Probability / float64(len(seeds))
		}
	}

	// при положительном ожидании больший депозит не разоряется чаще (с допуском на шум)
	const tolerance = 6.0
	for i := 1; i < len(avg); i++ {
		assert.LessOrEqual(t, avg[i], avg[i-1]+tolerance,
			"balance %v: %.2f vs %.2f", RuinBalances[i], avg[i], avg[i-1])
	}
}

func TestRuinProbabilityCertainRuin(t *testing.T) {
	p := DefaultParams()
	p.WinRate = 0
	p.Risk = 0.7
	p.RuinTrials = 50

	for _, e := range New(3).RuinProbability(p, []float64{100, 200}) {
		assert.Equal(t, 100.0, e.Probability)
	}
}

func TestRuinProbabilityNoRuin(t *testing.T) {
	p := DefaultParams()
	p.WinRate = 1
	p.RuinTrials = 50

	for _, e := range New(3).RuinProbability(p, nil) {
		assert.Zero(t, e.Probability)
	}
}
