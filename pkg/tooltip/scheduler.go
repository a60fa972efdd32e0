package tooltip

import (
	"slices"
	"sync"
	"time"
)

// Scheduler runs deferred callbacks. The returned function cancels the
// callback and reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

// SystemScheduler runs callbacks on timers from the time package.
var SystemScheduler Scheduler = systemScheduler{}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// ManualScheduler runs callbacks only when its virtual clock is advanced.
// Scripts and tests use it to step through reveal delays deterministically.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	at  time.Duration
	seq int
	f   func()
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

// AfterFunc schedules f at now+d.
func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &task{at: m.now + max(0, d), seq: m.seq, f: f}
	m.tasks = append(m.tasks, t)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		n := len(m.tasks)
		m.tasks = slices.DeleteFunc(m.tasks, func(x *task) bool { return x == t })
		return len(m.tasks) < n
	}
}

// Advance moves the clock forward by d and runs every callback that falls
// due, in time order. Callbacks run without the scheduler lock held and may
// schedule further callbacks; those run too if they fall within d.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + max(0, d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		m.tasks = slices.DeleteFunc(m.tasks, func(x *task) bool { return x == next })
		m.mu.Unlock()
		next.f()
	}
}

func (m *ManualScheduler) nextDue(target time.Duration) *task {
	var next *task
	for _, t := range m.tasks {
		if t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// Now returns the virtual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of scheduled callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
