package service

import (
	"context"
	"sync"
)

// feed holds the latest value of one polled server endpoint. Fetches may
// overlap; a result is applied only when it was issued after the value on
// display, so a slow answer never overwrites a newer one.
type feed[T any] struct {
	fetch func(context.Context) (T, error)
	wrap  func(error) error
	// keep reports whether a successful answer should replace the value.
	keep func(T) bool

	mu      sync.RWMutex
	issued  uint64
	applied uint64
	value   T
}

func (f *feed[T]) refresh(ctx context.Context) (T, error) {
	f.mu.Lock()
	f.issued++
	seq := f.issued
	f.mu.Unlock()

	value, err := f.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return f.get(), ctx.Err()
		}
		return f.get(), f.wrap(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return f.value, err
	}
	if seq <= f.applied {
		return f.value, ErrStaleCycle
	}
	f.applied = seq
	if f.keep == nil || f.keep(value) {
		f.value = value
	}
	return f.value, nil
}

func (f *feed[T]) get() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}
