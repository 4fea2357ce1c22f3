package simulation

import (
	"cmp"
	"slices"

	"ares_bot/internal/models"
)

const monthLayout = "2006-01"

// Monthly группирует журнал по календарному месяцу (YYYY-MM), месяцы по возрастанию.
func Monthly(ledger []models.LedgerEntry) []models.MonthlyAggregate {
	idx := make(map[string]int)
	var out []models.MonthlyAggregate
	for _, e := range ledger {
		m := e.Time.Format(monthLayout)
		i, ok := idx[m]
		if !ok {
			i = len(out)
			idx[m] = i
			out = append(out, models.MonthlyAggregate{Month: m})
		}
		out[i].NetProfit += e.PnL
		out[i].Trades++
	}
	slices.SortFunc(out, func(a, b models.MonthlyAggregate) int { return cmp.Compare(a.Month, b.Month) })
	return out
}

// winRate — доля сделок с PnL > 0, в процентах.
func winRate(ledger []models.LedgerEntry) float64 {
	if len(ledger) == 0 {
		return 0
	}
	wins := 0
	for _, e := range ledger {
		if e.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(ledger)) * 100
}
