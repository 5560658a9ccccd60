package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrSchedulerRunning = errors.New("scheduler already running")

// Scheduler runs a callback immediately and then on every tick until
// stopped or until the parent context ends. Ticks do not wait for the
// previous callback to finish, so callbacks may overlap; each receives a
// context that Stop cancels.
type Scheduler struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Start(ctx context.Context, interval time.Duration, callback func(context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval %s", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrSchedulerRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(runCtx, interval, callback, done)
	return nil
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, callback func(context.Context), done chan struct{}) {
	var callbacks sync.WaitGroup
	defer func() {
		callbacks.Wait()
		s.release(done)
		close(done)
	}()

	fire := func() {
		callbacks.Add(1)
		go func() {
			defer callbacks.Done()
			callback(ctx)
		}()
	}

	fire()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire()
		}
	}
}

// release clears the handle of a run that ended on its own, so the
// scheduler can be started again without a Stop.
func (s *Scheduler) release(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != done {
		return
	}
	s.cancel()
	s.cancel, s.done = nil, nil
}

// Stop cancels the timer and waits for running callbacks to return. It is
// safe to call more than once but must not be called from a callback.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
