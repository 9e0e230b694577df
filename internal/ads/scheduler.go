package ads

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Token identifies a scheduled task.
type Token = uuid.UUID

type task struct {
	token Token
	due   float64
	seq   uint64
	fn    func()
}

// Scheduler runs deferred continuations on the host loop. Time only moves
// when Advance is called, so a task never runs on another goroutine and a
// paused game pauses its timers.
type Scheduler struct {
	now   float64
	seq   uint64
	tasks map[Token]*task
}

// NewScheduler returns an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[Token]*task)}
}

// After schedules fn to run once delay seconds from now.
func (s *Scheduler) After(delay float64, fn func()) Token {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &task{token: uuid.New(), due: s.now + delay, seq: s.seq, fn: fn}
	s.tasks[t.token] = t
	return t.token
}

// Cancel drops a pending task. It reports whether the task was pending.
func (s *Scheduler) Cancel(tok Token) bool {
	if _, ok := s.tasks[tok]; !ok {
		return false
	}
	delete(s.tasks, tok)
	return true
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	clear(s.tasks)
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Now returns the scheduler clock in seconds.
func (s *Scheduler) Now() float64 { return s.now }

// Advance moves the clock by dt and runs every task that came due, in due
// order. Tasks scheduled while advancing wait for the next call.
func (s *Scheduler) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}

	var due []*task
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}
	slices.SortFunc(due, func(a, b *task) int {
		if c := cmp.Compare(a.due, b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	for _, t := range due {
		// An earlier task may have cancelled this one.
		if _, ok := s.tasks[t.token]; !ok {
			continue
		}
		delete(s.tasks, t.token)
		t.fn()
	}
}
