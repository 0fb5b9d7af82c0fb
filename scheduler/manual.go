package scheduler

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven entirely by Advance calls. It exists for
// tests and deterministic simulations: time only moves when told to, and
// due tasks run synchronously inside Advance in due order.
type Manual struct {
	now     time.Time
	entries []*manualTask
	seq     int
}

// NewManual returns a manual scheduler starting at an arbitrary fixed time.
func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0)}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) After(d time.Duration, f func()) Task {
	return m.add(d, f, 0)
}

func (m *Manual) Every(interval time.Duration, f func()) Task {
	return m.add(interval, f, interval)
}

func (m *Manual) add(d time.Duration, f func(), interval time.Duration) *manualTask {
	m.seq++
	t := &manualTask{
		due:      m.now.Add(d),
		interval: interval,
		f:        f,
		seq:      m.seq,
	}
	m.entries = append(m.entries, t)
	return t
}

// Advance moves time forward by d, running every task that falls due, in
// due order. Repeating tasks re-arm until cancelled.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			next.cancelled = true
		}
		next.f()
		m.compact()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.entries {
		if t.cancelled || t.due.After(limit) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	kept := m.entries[:0]
	for _, t := range m.entries {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	m.entries = kept
	sort.SliceStable(m.entries, func(i, j int) bool { return m.entries[i].seq < m.entries[j].seq })
}

type manualTask struct {
	due       time.Time
	interval  time.Duration
	f         func()
	seq       int
	cancelled bool
}

func (t *manualTask) Cancel() {
	t.cancelled = true
}
