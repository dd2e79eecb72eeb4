// Package keylock serializes work on named resources, such as the stock ledger rows a
// payment approval is about to decrement.
package keylock

import (
	"context"
	"slices"
	"sync"
)

// Locker acquires every key or none. The returned release function is safe to call
// more than once.
type Locker interface {
	Lock(ctx context.Context, keys []string) (release func(), err error)
}

// Local is an in-process Locker. Entries are reference counted and removed when the
// last holder or waiter leaves, so the map only holds keys in use.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

// Lock takes the keys in sorted order, after removing duplicates, so two callers
// locking overlapping sets cannot deadlock.
func (l *Local) Lock(ctx context.Context, keys []string) (func(), error) {
	ordered := slices.Clone(keys)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	held := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if err := l.acquire(ctx, k); err != nil {
			l.releaseAll(held)
			return nil, err
		}
		held = append(held, k)
	}

	var once sync.Once
	return func() { once.Do(func() { l.releaseAll(held) }) }, nil
}

func (l *Local) acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(key, e)
		return ctx.Err()
	}
}

func (l *Local) releaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.locks[keys[i]]
		l.mu.Unlock()

		<-e.ch
		l.unref(keys[i], e)
	}
}

func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Noop never blocks. It is used when stock locking is switched off.
type Noop struct{}

func (Noop) Lock(context.Context, []string) (func(), error) {
	return func() {}, nil
}
