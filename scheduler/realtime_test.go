package scheduler

import (
	"sync"
	"testing"
	"time"
)

func TestRealtimeCancelConcurrent(t *testing.T) {
	r := NewRealtime()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		task := r.Every(time.Microsecond, func() {})
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			task.Cancel()
			// Idempotent.
			task.Cancel()
		}()
	}
	wg.Wait()
}

func TestRealtimeCancelStopsRepeat(t *testing.T) {
	r := NewRealtime()
	var mu sync.Mutex
	fired := 0
	task := r.Every(5*time.Millisecond, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	time.Sleep(40 * time.Millisecond)
	task.Cancel()
	mu.Lock()
	atCancel := fired
	mu.Unlock()
	if atCancel == 0 {
		t.Fatal("repeating task never fired")
	}

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	final := fired
	mu.Unlock()
	// One run may already be in flight when Cancel lands.
	if final > atCancel+1 {
		t.Errorf("task fired %d more times after cancel", final-atCancel)
	}
}

func TestRealtimeAfterCancelledBeforeFire(t *testing.T) {
	r := NewRealtime()
	ran := make(chan struct{}, 1)
	task := r.After(20*time.Millisecond, func() { ran <- struct{}{} })
	task.Cancel()

	select {
	case <-ran:
		t.Fatal("cancelled task still ran")
	case <-time.After(60 * time.Millisecond):
	}
}
