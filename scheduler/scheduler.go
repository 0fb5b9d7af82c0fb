package scheduler

import (
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/atomic"
)

// Scheduler is the timer surface the coordinator suspends itself through.
// Implementations must run tasks one at a time: a task always runs to
// completion before the next starts.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// After runs f once after d has elapsed.
	After(d time.Duration, f func()) Task
	// Every runs f at the given interval until the returned task is
	// cancelled. The first run happens after one interval.
	Every(interval time.Duration, f func()) Task
}

// Task is a handle to scheduled work. Cancel is idempotent and safe to call
// from any goroutine, including the task body itself.
type Task interface {
	Cancel()
}

// Realtime is a Scheduler backed by the wall clock. A single mutex
// serializes task execution so handlers are never re-entered.
type Realtime struct {
	mu sync.Mutex
}

// NewRealtime returns a wall-clock scheduler.
func NewRealtime() *Realtime {
	return &Realtime{}
}

func (r *Realtime) Now() time.Time {
	return time.Now()
}

func (r *Realtime) After(d time.Duration, f func()) Task {
	t := &realtimeTask{}
	t.timer = time.AfterFunc(d, func() {
		r.run(t, f, false)
	})
	return t
}

func (r *Realtime) Every(interval time.Duration, f func()) Task {
	t := &realtimeTask{interval: interval}
	t.timer = time.AfterFunc(interval, func() {
		r.run(t, f, true)
	})
	return t
}

func (r *Realtime) run(t *realtimeTask, f func(), repeat bool) {
	defer sentry.Recover()

	r.mu.Lock()
	defer r.mu.Unlock()
	if t.cancelled.Load() {
		return
	}
	f()
	if repeat && !t.cancelled.Load() {
		t.timer.Reset(t.interval)
	}
}

type realtimeTask struct {
	timer    *time.Timer
	interval time.Duration

	// Read by the timer goroutine while Cancel may be called from any
	// other goroutine.
	cancelled atomic.Bool
}

func (t *realtimeTask) Cancel() {
	t.cancelled.Store(true)
	if t.timer != nil {
		t.timer.Stop()
	}
}
