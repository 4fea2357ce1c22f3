package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ares_bot/internal/models"
)

func TestMonthlyGroupsByCalendarMonth(t *testing.T) {
	jan := time.Date(2025, 1, 31, 16, 0, 0, 0, time.UTC)
	ledger := []models.LedgerEntry{
		{Time: jan, PnL: 40},
		{Time: jan.Add(4 * time.Hour), PnL: -20},
		{Time: jan.Add(8 * time.Hour), PnL: 10}, // 1 февраля
		{Time: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), PnL: 5},
	}

	got := Monthly(ledger)
	require.Len(t, got, 3)
	assert.Equal(t, models.MonthlyAggregate{Month: "2025-01", NetProfit: 20, Trades: 2}, got[0])
	assert.Equal(t, models.MonthlyAggregate{Month: "2025-02", NetProfit: 10, Trades: 1}, got[1])
	assert.Equal(t, models.MonthlyAggregate{Month: "2025-03", NetProfit: 5, Trades: 1}, got[2])
}

func TestMonthlyEmpty(t *testing.T) {
	assert.Empty(t, Monthly(nil))
	assert.Zero(t, winRate(nil))
}

func TestWinRateCountsStrictProfit(t *testing.T) {
	ledger := []models.LedgerEntry{{PnL: 1}, {PnL: 0}, {PnL: -1}, {PnL: 2}}
	assert.Equal(t, 50.0, winRate(ledger))
}
