package ui

import (
	"context"
	"sync"
	"time"
)

// periodicTask runs fn on every tick between Start and Stop
type periodicTask struct {
	interval time.Duration
	fn       func()

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newPeriodicTask(interval time.Duration, fn func()) *periodicTask {
	return &periodicTask{interval: interval, fn: fn}
}

// Start is a no-op when the task is already running
func (t *periodicTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.fn()
			}
		}
	}()
}

func (t *periodicTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *periodicTask) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
