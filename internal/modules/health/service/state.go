package service

import (
	"sync/atomic"
	"time"
)

// State — готовность HTTP-поверхности и время последнего управляющего запроса.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastControlUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) TouchControl(t time.Time) { s.lastControlUnix.Store(t.Unix()) }
func (s *State) LastControl() time.Time {
	u := s.lastControlUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
