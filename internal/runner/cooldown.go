package runner

import (
	"sync"
	"time"
)

// CooldownTracker — время последней сделки по символу.
// Запись появляется только на подтверждённом исполнении и никогда не чистится:
// устаревание решает сравнение при чтении.
type CooldownTracker struct {
	mu   sync.RWMutex
	last map[string]time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{last: make(map[string]time.Time)}
}

// Eligible: now - last > cooldown, граница ещё закрыта.
func (c *CooldownTracker) Eligible(symbol string, cooldown time.Duration, now time.Time) bool {
	c.mu.RLock()
	last, ok := c.last[symbol]
	c.mu.RUnlock()
	if !ok {
		return true
	}
	return now.Sub(last) > cooldown
}

func (c *CooldownTracker) Mark(symbol string, at time.Time) {
	c.mu.Lock()
	c.last[symbol] = at
	c.mu.Unlock()
}

func (c *CooldownTracker) Last(symbol string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.last[symbol]
	return t, ok
}
