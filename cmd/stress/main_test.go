package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ares_bot/internal/models"
)

func TestSymbolForDefaults(t *testing.T) {
	sym, err := symbolFor("stress", "")
	require.NoError(t, err)
	assert.Equal(t, stressTitle, sym)

	sym, err = symbolFor("backtest", "")
	require.NoError(t, err)
	assert.Equal(t, models.Symbols[0], sym)
	assert.True(t, models.IsKnownSymbol(sym))
}

func TestSymbolForBacktestNeedsKnownSymbol(t *testing.T) {
	sym, err := symbolFor("backtest", "Crash 1000 Index")
	require.NoError(t, err)
	assert.Equal(t, "Crash 1000 Index", sym)

	_, err = symbolFor("backtest", stressTitle)
	assert.Error(t, err)

	// в стресс-тесте символ только подпись отчёта
	sym, err = symbolFor("stress", "My Book")
	require.NoError(t, err)
	assert.Equal(t, "My Book", sym)
}
