package simulation

import (
	"math/rand/v2"
	"time"

	"ares_bot/internal/models"
)

const (
	DefaultHorizon    = 300
	DefaultStep       = 4 * time.Hour
	DefaultRuinTrials = 1000
	RuinFraction      = 0.4
)

// RuinBalances — стартовые балансы таблицы вероятности разорения.
var RuinBalances = []float64{500, 1000, 2000, 5000}

// Params — модель сделки: выигрыш с вероятностью WinRate приносит balance*Risk*RewardRatio,
// проигрыш забирает balance*Risk.
type Params struct {
	StartBalance float64
	WinRate      float64
	RewardRatio  float64
	Risk         float64
	Horizon      int           // сделок на прогон
	Step         time.Duration // шаг синтетических часов между сделками
	RuinTrials   int
}

func DefaultParams() Params {
	return Params{
		StartBalance: 1000,
		WinRate:      0.55,
		RewardRatio:  2.0,
		Risk:         0.02,
		Horizon:      DefaultHorizon,
		Step:         DefaultStep,
		RuinTrials:   DefaultRuinTrials,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Horizon <= 0 {
		p.Horizon = d.Horizon
	}
	if p.Step <= 0 {
		p.Step = d.Step
	}
	if p.RuinTrials <= 0 {
		p.RuinTrials = d.RuinTrials
	}
	return p
}

// Simulator держит источник случайности. Не потокобезопасен: один прогон на экземпляр.
type Simulator struct {
	rng *rand.Rand
}

func New(seed uint64) *Simulator {
	return NewWithRand(rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)))
}

func NewWithRand(rng *rand.Rand) *Simulator {
	return &Simulator{rng: rng}
}

func (s *Simulator) tradePnL(balance float64, p Params) float64 {
	if s.rng.Float64() < p.WinRate {
		return balance * p.Risk * p.RewardRatio
	}
	return -balance * p.Risk
}

// MonteCarlo — один прогон до Horizon сделок. Останавливается на первой сделке,
// после которой баланс <= 0; журнал содержит всё, что успело случиться.
func (s *Simulator) MonteCarlo(p Params, start time.Time) models.SimulationRun {
	p = p.withDefaults()

	run := models.SimulationRun{
		StartBalance: p.StartBalance,
		Ledger:       make([]models.LedgerEntry, 0, p.Horizon),
	}
	balance, peak := p.StartBalance, p.StartBalance
	at := start

	for range p.Horizon {
		at = at.Add(p.Step)
		pnl := s.tradePnL(balance, p)
		balance += pnl
		if balance > peak {
			peak = balance
		}
		if peak > 0 {
			if dd := (peak - balance) / peak * 100; dd > run.MaxDrawdownPct {
				run.MaxDrawdownPct = dd
			}
		}
		run.Ledger = append(run.Ledger, models.LedgerEntry{Time: at, PnL: pnl, Balance: balance})
		if balance <= 0 {
			run.Terminated = true
			break
		}
	}
	run.FinalBalance = balance
	return run
}

// RuinProbability — доля испытаний (в процентах), где баланс падал ниже
// RuinFraction от стартового за Horizon сделок. Испытание обрывается на разорении.
func (s *Simulator) RuinProbability(p Params, balances []float64) []models.RuinEstimate {
	p = p.withDefaults()
	if len(balances) == 0 {
		balances = RuinBalances
	}

	out := make([]models.RuinEstimate, 0, len(balances))
	for _, start := range balances {
		floor := start * RuinFraction
		ruined := 0
		for range p.RuinTrials {
			balance := start
			for range p.Horizon {
				balance += s.tradePnL(balance, p)
				if balance < floor {
					ruined++
					break
				}
			}
		}
		out = append(out, models.RuinEstimate{
			StartBalance: start,
			Probability:  float64(ruined) / float64(p.RuinTrials) * 100,
		})
	}
	return out
}
