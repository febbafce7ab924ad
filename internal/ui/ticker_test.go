package ui

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicTask(t *testing.T) {
	var ticks atomic.Int32
	task := newPeriodicTask(5*time.Millisecond, func() { ticks.Add(1) })

	task.Start()
	task.Start()
	if !task.Running() {
		t.Fatal("Task should be running after Start")
	}

	deadline := time.Now().Add(time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ticks.Load() < 3 {
		t.Fatalf("Expected at least 3 ticks, got %d", ticks.Load())
	}

	task.Stop()
	task.Stop()
	if task.Running() {
		t.Error("Task should not be running after Stop")
	}

	time.Sleep(20 * time.Millisecond)
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != stopped {
		t.Error("Task kept ticking after Stop")
	}
}
