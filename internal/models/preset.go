package models

import "time"

// StrategyParams — параметры стратегии для одного символа.
type StrategyParams struct {
	StopLossDistance float64       // дистанция SL в пунктах цены
	Cooldown         time.Duration // пауза перед повторным входом
	ZoneWidth        float64       // макс. расстояние цены до уровня
	EMASensitivity   float64       // допуск EMA fast против EMA mid
	RSILow           float64
	RSIHigh          float64
	StrategyID       int64 // magic, которым помечаются позиции
}

// Символы, которыми торгует движок.
var Symbols = []string{
	"Crash 500 Index",
	"Boom 1000 Index",
	"Crash 1000 Index",
	"Boom 900 Index",
	"Crash 900 Index",
	"Boom 500 Index",
}

var Presets = map[string]StrategyParams{
	"Boom 1000 Index": {
		StopLossDistance: 5.0,
		Cooldown:         60 * time.Minute,
		ZoneWidth:        3.0,
		EMASensitivity:   8.0,
		RSILow:           35,
		RSIHigh:          65,
		StrategyID:       100100,
	},
	"Boom 900 Index": {
		StopLossDistance: 5.0,
		Cooldown:         60 * time.Minute,
		ZoneWidth:        4.0,
		EMASensitivity:   4.0,
		RSILow:           30,
		RSIHigh:          70,
		StrategyID:       100200,
	},
	"Boom 500 Index": {
		StopLossDistance: 3.5,
		Cooldown:         60 * time.Minute,
		ZoneWidth:        5.0,
		EMASensitivity:   6.0,
		RSILow:           30,
		RSIHigh:          70,
		StrategyID:       100300,
	},
	"Crash 1000 Index": {
		StopLossDistance: 2.5,
		Cooldown:         15 * time.Minute,
		ZoneWidth:        5.0,
		EMASensitivity:   6.0,
		RSILow:           30,
		RSIHigh:          70,
		StrategyID:       100400,
	},
	"Crash 900 Index": {
		StopLossDistance: 3.0,
		Cooldown:         30 * time.Minute,
		ZoneWidth:        5.0,
		EMASensitivity:   6.0,
		RSILow:           35,
		RSIHigh:          65,
		StrategyID:       100500,
	},
	"Crash 500 Index": {
		StopLossDistance: 3.0,
		Cooldown:         15 * time.Minute,
		ZoneWidth:        5.0,
		EMASensitivity:   6.0,
		RSILow:           30,
		RSIHigh:          70,
		StrategyID:       100600,
	},
}

// DefaultParams применяется к символам вне таблицы.
var DefaultParams = StrategyParams{
	StopLossDistance: 3.0,
	Cooldown:         30 * time.Minute,
	ZoneWidth:        4.0,
	EMASensitivity:   6.0,
	RSILow:           35,
	RSIHigh:          65,
	StrategyID:       123456,
}

func ParamsFor(symbol string) StrategyParams {
	if p, ok := Presets[symbol]; ok {
		return p
	}
	return DefaultParams
}

// StrategyIDs — все magic движка: по одному на пресет плюс дефолтный.
func StrategyIDs() []int64 {
	ids := make([]int64, 0, len(Symbols)+1)
	for _, s := range Symbols {
		ids = append(ids, Presets[s].StrategyID)
	}
	return append(ids, DefaultParams.StrategyID)
}

func IsKnownSymbol(symbol string) bool {
	_, ok := Presets[symbol]
	return ok
}
