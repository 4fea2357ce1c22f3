package runner

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"ares_bot/internal/models"
	"ares_bot/internal/ringbuf"
)

const bufferCapacity = 100

// State — состояние движка. Пишет только воркер цикла (и Start/Stop для статуса),
// читатели получают копии через Snapshot.
type State struct {
	mu      sync.RWMutex
	status  models.EngineStatus
	account *models.AccountSnapshot
	peak    float64
	dd      float64
	ticks   int64
	symbols map[string]models.SymbolState

	logs   *ringbuf.Ring[string]
	equity *ringbuf.Ring[models.EquitySample]
}

func NewState() *State {
	return &State{
		status:  models.StatusOffline,
		symbols: make(map[string]models.SymbolState),
		logs:    ringbuf.New[string](bufferCapacity),
		equity:  ringbuf.New[models.EquitySample](bufferCapacity),
	}
}

func (s *State) SetStatus(st models.EngineStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *State) Status() models.EngineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *State) SetAccount(a models.AccountSnapshot) {
	s.mu.Lock()
	s.account = &a
	s.mu.Unlock()
}

func (s *State) HasAccount() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil
}

// RecordEquity обновляет баланс/эквити, пик и просадку и кладёт сэмпл в буфер.
func (s *State) RecordEquity(at time.Time, balance, equity float64) (peak, drawdownPct float64) {
	s.mu.Lock()
	if s.account == nil {
		s.account = &models.AccountSnapshot{}
	}
	s.account.Balance = balance
	s.account.Equity = equity
	if equity > s.peak {
		s.peak = equity
	}
	if s.peak > 0 {
		s.dd = (s.peak - equity) / s.peak * 100
	}
	peak, drawdownPct = s.peak, s.dd
	s.mu.Unlock()

	s.equity.Push(models.EquitySample{Time: at, Value: equity})
	return peak, drawdownPct
}

// AppendLog кладёт строку "[HH:MM:SS] msg" в начало журнала.
func (s *State) AppendLog(at time.Time, msg string) {
	s.logs.Push(fmt.Sprintf("[%s] %s", at.Format("15:04:05"), msg))
}

func (s *State) SetSymbolState(symbol string, st models.SymbolState) {
	s.mu.Lock()
	s.symbols[symbol] = st
	s.mu.Unlock()
}

func (s *State) IncTicks() {
	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()
}

func (s *State) Ticks() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

// Snapshot — неизменяемая копия для читателей.
func (s *State) Snapshot() models.EngineSnapshot {
	s.mu.RLock()
	snap := models.EngineSnapshot{
		Status:      s.status,
		PeakEquity:  s.peak,
		DrawdownPct: s.dd,
		Ticks:       s.ticks,
		Symbols:     maps.Clone(s.symbols),
	}
	if s.account != nil {
		acc := *s.account
		snap.Account = &acc
	}
	s.mu.RUnlock()

	snap.Logs = s.logs.SnapshotNewestFirst()
	snap.Equity = s.equity.Snapshot()
	return snap
}
