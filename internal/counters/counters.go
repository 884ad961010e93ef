// Package counters implements read-modify-write counters on a store with no
// atomic increments. Every mutation for a counter class passes through that
// class's gate, so interleaved callers never lose updates; the gate covers
// exactly one read and one write, no I/O beyond the store itself.
package counters

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/shared/metrics"
)

// Counter classes. Coarser than per-key on purpose: all counters of one
// entity kind share a gate, trading throughput for a small lock table.
const (
	ClassBoard  = "board"
	ClassThread = "thread"
	ClassUser   = "user"
)

// Engine owns the lock table. Independent store instances get independent
// engines, so tests never cross-talk through package-level state.
type Engine struct {
	store kv.Engine

	mu    sync.Mutex
	gates map[string]*sync.Mutex

	// delay runs inside the critical section when set; tests use it to
	// widen race windows.
	delay func()
}

func New(store kv.Engine) *Engine {
	return &Engine{
		store: store,
		gates: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) gate(class string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.gates[class]
	if !ok {
		g = &sync.Mutex{}
		e.gates[class] = g
	}
	return g
}

// WithLock runs fn while holding the class gate. Storage uses it for
// secondary-index claims and denormalized field writes that must not race
// with counter mutations of the same class.
func (e *Engine) WithLock(class string, fn func() error) error {
	g := e.gate(class)
	g.Lock()
	defer g.Unlock()
	return fn()
}

// Increment adds one to the counter at key and returns the new value.
func (e *Engine) Increment(class string, key []byte) (uint64, error) {
	return e.apply(class, "increment", key, func(v uint64) uint64 { return v + 1 })
}

// Decrement subtracts one, clamping at zero.
func (e *Engine) Decrement(class string, key []byte) (uint64, error) {
	return e.apply(class, "decrement", key, func(v uint64) uint64 {
		if v == 0 {
			return 0
		}
		return v - 1
	})
}

func (e *Engine) apply(class, op string, key []byte, f func(uint64) uint64) (uint64, error) {
	g := e.gate(class)
	g.Lock()
	start := time.Now()
	defer func() {
		metrics.ObserveCounterMutation(class, op, time.Since(start))
		g.Unlock()
	}()

	current, err := e.read(key)
	if err != nil {
		return 0, err
	}
	if e.delay != nil {
		e.delay()
	}
	next := f(current)
	if next == current {
		return current, nil // decrement at the floor writes nothing
	}
	if err := e.store.Put(key, []byte(strconv.FormatUint(next, 10))); err != nil {
		return 0, fmt.Errorf("failed to write counter: %w", err)
	}
	return next, nil
}

// Value reads a counter without taking the gate; absent counters read as 0.
func (e *Engine) Value(key []byte) (uint64, error) {
	return e.read(key)
}

func (e *Engine) read(key []byte) (uint64, error) {
	raw, err := e.store.Get(key)
	if err == kv.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter value %q: %w", raw, err)
	}
	return v, nil
}
