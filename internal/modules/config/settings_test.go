package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ares_bot/internal/models"
)

func TestSettingsDefaults(t *testing.T) {
	s := LoadSettings(filepath.Join(t.TempDir(), "user_config.json"))

	got := s.Get()
	assert.Equal(t, 0.2, got.LotSize)
	assert.Empty(t, got.ActiveIndices)
	assert.False(t, got.EnableEmail)
	assert.Equal(t, models.Symbols, s.ActiveSymbols())
}

func TestSettingsCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := LoadSettings(path)
	assert.Equal(t, 0.2, s.LotSize())
}

func TestSetLotSize(t *testing.T) {
	s := LoadSettings(filepath.Join(t.TempDir(), "user_config.json"))

	lot, err := s.SetLotSize(" 0.5 ")
	require.NoError(t, err)
	assert.Equal(t, 0.5, lot)

	lot, err = s.SetLotSize("0.234")
	require.NoError(t, err)
	assert.Equal(t, 0.23, lot)

	for _, bad := range []string{"abc", "", "-1", "0", "0.004"} {
		lot, err = s.SetLotSize(bad)
		require.ErrorIs(t, err, ErrInvalidLotSize, bad)
		assert.Equal(t, 0.23, lot)
	}
	assert.Equal(t, 0.23, s.LotSize())
}

func TestSetLotSizeRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_config.json")
	s := LoadSettings(path)

	for _, bad := range []string{"1e400", "-1e400", "100.01", "250"} {
		lot, err := s.SetLotSize(bad)
		require.ErrorIs(t, err, ErrInvalidLotSize, bad)
		assert.Equal(t, 0.2, lot, bad)
	}
	assert.Equal(t, 0.2, s.LotSize())
	require.NoError(t, s.Save())

	lot, err := s.SetLotSize("100")
	require.NoError(t, err)
	assert.Equal(t, 100.0, lot)
}

func TestSettingsOversizedLotOnDiskFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lot_size": 5000}`), 0o600))

	assert.Equal(t, 0.2, LoadSettings(path).LotSize())
}

func TestSetActiveIndicesDropsUnknown(t *testing.T) {
	s := LoadSettings(filepath.Join(t.TempDir(), "user_config.json"))

	got := s.SetActiveIndices([]string{"Boom 500 Index", "EURUSD", "Boom 500 Index", "Crash 900 Index"})
	assert.Equal(t, []string{"Boom 500 Index", "Crash 900 Index"}, got)
	assert.Equal(t, got, s.ActiveSymbols())

	s.SetActiveIndices(nil)
	assert.Len(t, s.ActiveSymbols(), len(models.Symbols))
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_config.json")
	s := LoadSettings(path)

	_, err := s.SetLotSize("1.25")
	require.NoError(t, err)
	s.SetActiveIndices([]string{"Crash 1000 Index"})
	s.SetEmail("trader@example.com", "secret", true)
	require.NoError(t, s.Save())

	reloaded := LoadSettings(path).Get()
	assert.Equal(t, 1.25, reloaded.LotSize)
	assert.Equal(t, []string{"Crash 1000 Index"}, reloaded.ActiveIndices)
	assert.Equal(t, "trader@example.com", reloaded.EmailAddress)
	assert.Equal(t, "secret", reloaded.AppPassword)
	assert.True(t, reloaded.EnableEmail)
}
