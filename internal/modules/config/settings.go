package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"ares_bot/internal/models"
	"ares_bot/pkg/logger"
)

// ErrInvalidLotSize — ручной ввод объёма не прошёл проверку.
var ErrInvalidLotSize = errors.New("invalid lot size")

const (
	keyLotSize       = "lot_size"
	keyActiveIndices = "active_indices"
	keyEmailAddress  = "email_address"
	keyAppPassword   = "app_password"
	keyEnableEmail   = "enable_email"

	defaultLotSize = 0.2
	maxLotSize     = 100.0
)

var (
	lotStep = decimal.NewFromFloat(0.01)
	lotMax  = decimal.NewFromFloat(maxLotSize)
)

// UserSettings — снимок пользовательских настроек.
type UserSettings struct {
	LotSize       float64  `json:"lot_size"`
	ActiveIndices []string `json:"active_indices"`
	EmailAddress  string   `json:"email_address"`
	AppPassword   string   `json:"app_password"`
	EnableEmail   bool     `json:"enable_email"`
}

// Settings — персистентные настройки пользователя (user_config.json) поверх viper.
// Битый или отсутствующий файл молча даёт дефолты.
type Settings struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

func NewSettings(cfg *Config) *Settings {
	return LoadSettings(cfg.SettingsPath)
}

func LoadSettings(path string) *Settings {
	v := newViper(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("[SETTINGS] %s unreadable, using defaults: %v", path, err)
			v = newViper(path)
		}
	}
	s := &Settings{v: v, path: path}
	s.sanitize()
	return s
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault(keyLotSize, defaultLotSize)
	v.SetDefault(keyActiveIndices, []string{})
	v.SetDefault(keyEmailAddress, "")
	v.SetDefault(keyAppPassword, "")
	v.SetDefault(keyEnableEmail, false)
	return v
}

// sanitize чинит значения, которые прочитались, но не проходят проверку.
func (s *Settings) sanitize() {
	if lot := s.v.GetFloat64(keyLotSize); !validLot(lot) {
		s.v.Set(keyLotSize, defaultLotSize)
	}
	s.v.Set(keyActiveIndices, knownSymbols(s.v.GetStringSlice(keyActiveIndices)))
}

func (s *Settings) Get() UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return UserSettings{
		LotSize:       s.v.GetFloat64(keyLotSize),
		ActiveIndices: slices.Clone(s.v.GetStringSlice(keyActiveIndices)),
		EmailAddress:  s.v.GetString(keyEmailAddress),
		AppPassword:   s.v.GetString(keyAppPassword),
		EnableEmail:   s.v.GetBool(keyEnableEmail),
	}
}

func (s *Settings) LotSize() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetFloat64(keyLotSize)
}

// ActiveSymbols — пустой набор означает все известные символы.
func (s *Settings) ActiveSymbols() []string {
	s.mu.RLock()
	active := s.v.GetStringSlice(keyActiveIndices)
	s.mu.RUnlock()

	if len(active) == 0 {
		return slices.Clone(models.Symbols)
	}
	return slices.Clone(active)
}

// SetLotSize парсит ручной ввод; при ошибке прежнее значение остаётся.
func (s *Settings) SetLotSize(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return s.LotSize(), fmt.Errorf("%w: %q is not a number", ErrInvalidLotSize, raw)
	}
	d = d.Div(lotStep).Round(0).Mul(lotStep)
	if !d.IsPositive() {
		return s.LotSize(), fmt.Errorf("%w: %s must be positive", ErrInvalidLotSize, raw)
	}
	if d.GreaterThan(lotMax) {
		return s.LotSize(), fmt.Errorf("%w: %s exceeds %v", ErrInvalidLotSize, raw, maxLotSize)
	}

	lot := d.InexactFloat64()
	if !validLot(lot) {
		return s.LotSize(), fmt.Errorf("%w: %s is out of range", ErrInvalidLotSize, raw)
	}
	s.mu.Lock()
	s.v.Set(keyLotSize, lot)
	s.mu.Unlock()
	return lot, nil
}

// validLot — конечное положительное значение не больше maxLotSize.
func validLot(lot float64) bool {
	return !math.IsNaN(lot) && !math.IsInf(lot, 0) && lot > 0 && lot <= maxLotSize
}

// SetActiveIndices оставляет только известные символы в порядке ввода.
func (s *Settings) SetActiveIndices(symbols []string) []string {
	known := knownSymbols(symbols)
	s.mu.Lock()
	s.v.Set(keyActiveIndices, known)
	s.mu.Unlock()
	return known
}

func (s *Settings) SetEmail(address, appPassword string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyEmailAddress, strings.TrimSpace(address))
	s.v.Set(keyAppPassword, appPassword)
	s.v.Set(keyEnableEmail, enabled)
}

// Save пишет текущие значения в файл настроек.
func (s *Settings) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return pkgerrors.Wrapf(err, "write settings %s", s.path)
	}
	return nil
}

func knownSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, sym := range in {
		sym = strings.TrimSpace(sym)
		if models.IsKnownSymbol(sym) && !slices.Contains(out, sym) {
			out = append(out, sym)
		}
	}
	return out
}

// Email — учётка для уведомлений по почте.
func (s *Settings) Email() (address, appPassword string, enabled bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyEmailAddress), s.v.GetString(keyAppPassword), s.v.GetBool(keyEnableEmail)
}
