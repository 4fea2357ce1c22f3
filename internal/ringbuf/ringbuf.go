// Package ringbuf — кольцевой буфер фиксированной ёмкости, при переполнении
// затирает самый старый элемент. Читатели получают только копии.
package ringbuf

import (
	"sync"
	"sync/atomic"
)

// Ring — буфер с вытеснением старейшего.
type Ring[T any] struct {
	mu    sync.RWMutex
	buf   []T
	start int // индекс самого старого элемента
	size  int

	dropped atomic.Uint64 // сколько элементов вытеснено (для метрик)
}

// New создаёт буфер, ёмкость не меньше 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push добавляет v как самый новый; на полной ёмкости вытесняет старейший.
func (r *Ring[T]) Push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
	r.dropped.Add(1)
}

// Snapshot — копия содержимого, старые первыми.
func (r *Ring[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// SnapshotNewestFirst — копия, новые первыми.
func (r *Ring[T]) SnapshotNewestFirst() []T {
	out := r.Snapshot()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Last — самый новый элемент.
func (r *Ring[T]) Last() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.start+r.size-1)%len(r.buf)], true
}

func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring[T]) Cap() int { return len(r.buf) }

// Dropped — сколько всего элементов вытеснено.
func (r *Ring[T]) Dropped() uint64 { return r.dropped.Load() }
