package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"ares_bot/pkg/logger"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	bridgeURLENV      = "BRIDGE_URL"

	GatewayPaper  = "paper"
	GatewayBridge = "bridge"
)

// Config — конфиг сервиса (файл configs/*.yaml + env).
type Config struct {
	Service struct {
		Name  string `yaml:"name"`
		Host  string `yaml:"host"`
		Port  int    `yaml:"port"`
		Debug bool   `yaml:"debug"`
	} `yaml:"service"`

	Engine EngineConfig `yaml:"engine"`

	Gateway struct {
		Mode           string        `yaml:"mode"` // paper | bridge
		BridgeURL      string        `yaml:"bridge_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		PaperBalance   float64       `yaml:"paper_balance"`
		PaperSeed      uint64        `yaml:"paper_seed"`
	} `yaml:"gateway"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	DB string `yaml:"db_dsn"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	SettingsPath string `yaml:"settings_path"`
}

// EngineConfig — параметры цикла и анализа рынка.
type EngineConfig struct {
	Cadence         time.Duration `yaml:"cadence"`
	ErrorBackoff    time.Duration `yaml:"error_backoff"`
	Autostart       bool          `yaml:"autostart"`
	PivotOrder      int           `yaml:"pivot_order"`
	TrendLookback   int           `yaml:"trend_lookback"`
	TrendTolerance  float64       `yaml:"trend_tolerance"`
	CoarseCandles   int           `yaml:"coarse_candles"`
	FineCandles     int           `yaml:"fine_candles"`
	EMAFast         int           `yaml:"ema_fast"`
	EMAMid          int           `yaml:"ema_mid"`
	EMASlow         int           `yaml:"ema_slow"`
	ProfitThreshold float64       `yaml:"profit_threshold"`
	Deviation       int           `yaml:"deviation"`
}

// Default — конфиг без файла.
func Default() *Config {
	c := &Config{}
	c.Service.Name = "ares_bot"
	c.Service.Host = "0.0.0.0"
	c.Service.Port = 8080

	c.Engine = EngineConfig{
		Cadence:         time.Second,
		ErrorBackoff:    5 * time.Second,
		PivotOrder:      5,
		TrendLookback:   50,
		TrendTolerance:  0.002,
		CoarseCandles:   1000,
		FineCandles:     200,
		EMAFast:         20,
		EMAMid:          50,
		EMASlow:         200,
		ProfitThreshold: 0.50,
		Deviation:       20,
	}

	c.Gateway.Mode = GatewayPaper
	c.Gateway.RequestTimeout = 5 * time.Second
	c.Gateway.PaperBalance = 1000
	c.Gateway.PaperSeed = 42

	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831

	c.SettingsPath = "user_config.json"
	return c
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	return Load(filepath.Join("configs", configFileName))
}

// Load читает yaml поверх дефолтов и применяет env. Отсутствующий файл — не ошибка.
func Load(path string) (*Config, error) {
	config := Default()

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Warn("[CONFIG] %s not found, using defaults", path)
	case err != nil:
		return nil, errors.Wrapf(err, "read config %s", path)
	default:
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	}

	applyEnv(config)
	return config, nil
}

func applyEnv(config *Config) {
	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	config.Telegram.ChatID = int64FromEnv(chatTelegramENV, config.Telegram.ChatID)

	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if url := os.Getenv(bridgeURLENV); url != "" {
		config.Gateway.BridgeURL = url
		config.Gateway.Mode = GatewayBridge
	}
	config.Engine.Autostart = boolFromEnv("ENGINE_AUTOSTART", config.Engine.Autostart)
}

func int64FromEnv(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}
