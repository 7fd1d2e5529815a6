// Package mirror implements a local copy of a server-owned collection with
// optimistic mutation. The pattern: snapshot the current state, apply the
// mutation locally so callers see it immediately, issue the remote call,
// and restore the snapshot if the call fails. A dirty check against the
// last-synced copy decides whether a "save" action has anything to push.
//
// The cart and availability packages are both built on this type.
package mirror

import (
	"reflect"
	"sync"
)

// CloneFunc produces an independent copy of T. Mirrors hand out and keep
// copies, never aliases, so a stored snapshot cannot be mutated from
// outside.
type CloneFunc[T any] func(T) T

// Mirror holds the local copy of a remote collection along with the
// last-synced baseline. All methods are safe for concurrent use.
type Mirror[T any] struct {
	mu      sync.Mutex
	current T
	synced  T
	clone   CloneFunc[T]
	subs    map[int]func(T)
	nextSub int
}

// New creates a Mirror seeded with initial as both the current state and
// the synced baseline.
func New[T any](initial T, clone CloneFunc[T]) *Mirror[T] {
	return &Mirror[T]{
		current: clone(initial),
		synced:  clone(initial),
		clone:   clone,
		subs:    make(map[int]func(T)),
	}
}

// Get returns a copy of the current state.
func (m *Mirror[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clone(m.current)
}

// Snapshot captures the current state for a later Restore.
func (m *Mirror[T]) Snapshot() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clone(m.current)
}

// Mutate applies fn to a copy of the current state and adopts the result.
// Subscribers are notified after the lock is released.
func (m *Mirror[T]) Mutate(fn func(T) T) {
	m.mu.Lock()
	m.current = fn(m.clone(m.current))
	state := m.clone(m.current)
	subs := m.subscribers()
	m.mu.Unlock()
	notify(subs, state)
}

// Restore replaces the current state with a previously taken snapshot,
// the rollback half of an optimistic mutation.
func (m *Mirror[T]) Restore(snapshot T) {
	m.mu.Lock()
	m.current = m.clone(snapshot)
	state := m.clone(m.current)
	subs := m.subscribers()
	m.mu.Unlock()
	notify(subs, state)
}

// Dirty reports whether the current state differs from the last-synced
// baseline. The comparison is whole-structure and order-sensitive: two
// states holding the same elements in a different order compare as dirty.
func (m *Mirror[T]) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !reflect.DeepEqual(m.current, m.synced)
}

// MarkSynced adopts the current state as the synced baseline.
func (m *Mirror[T]) MarkSynced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced = m.clone(m.current)
}

// Reset replaces both the current state and the synced baseline, used
// when a fresh copy arrives from the server.
func (m *Mirror[T]) Reset(state T) {
	m.mu.Lock()
	m.current = m.clone(state)
	m.synced = m.clone(state)
	out := m.clone(m.current)
	subs := m.subscribers()
	m.mu.Unlock()
	notify(subs, out)
}

// Subscribe registers fn to be called with a copy of the state after every
// change. It returns an unsubscribe function. This is how many readers
// share one store without a process-wide global.
func (m *Mirror[T]) Subscribe(fn func(T)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Mirror[T]) subscribers() []func(T) {
	out := make([]func(T), 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}

func notify[T any](subs []func(T), state T) {
	for _, fn := range subs {
		fn(state)
	}
}
