package ads

import (
	"slices"
	"testing"
)

func TestSchedulerRunsInDueOrder(t *testing.T) {
	s := NewScheduler()
	var got []string

	s.After(2, func() { got = append(got, "b") })
	s.After(1, func() { got = append(got, "a") })
	s.After(2, func() { got = append(got, "c") })

	s.Advance(0.5)
	if len(got) != 0 {
		t.Fatalf("nothing should run before its due time, got %v", got)
	}

	s.Advance(2)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, expected [a b c]", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after all ran", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	ran := false

	tok := s.After(1, func() { ran = true })
	if !s.Cancel(tok) {
		t.Error("Cancel should report a pending task")
	}
	if s.Cancel(tok) {
		t.Error("second Cancel should report nothing pending")
	}

	s.Advance(5)
	if ran {
		t.Error("cancelled task ran")
	}
}

func TestSchedulerCancelFromEarlierTask(t *testing.T) {
	s := NewScheduler()
	ran := false

	var second Token
	s.After(1, func() { s.Cancel(second) })
	second = s.After(1, func() { ran = true })

	s.Advance(1)
	if ran {
		t.Error("task cancelled by an earlier task in the same frame ran")
	}
}

func TestSchedulerTasksAddedWhileAdvancingWait(t *testing.T) {
	s := NewScheduler()
	count := 0

	s.After(0, func() {
		count++
		s.After(0, func() { count++ })
	})

	s.Advance(0)
	if count != 1 {
		t.Fatalf("count = %d after first frame, expected 1", count)
	}
	s.Advance(0)
	if count != 2 {
		t.Errorf("count = %d after second frame, expected 2", count)
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler()
	ran := 0
	for i := 0; i < 3; i++ {
		s.After(float64(i), func() { ran++ })
	}
	s.CancelAll()
	s.Advance(10)

	if ran != 0 || s.Pending() != 0 {
		t.Errorf("ran = %d, pending = %d after CancelAll", ran, s.Pending())
	}
	if s.Now() != 10 {
		t.Errorf("Now() = %v, expected 10", s.Now())
	}
}
