package appstate

import (
	"sort"
	"time"
)

// Task is a scheduled callback that has not necessarily run yet.
type Task interface {
	// Cancel stops the task from running. It reports false when the task has
	// already run or was already cancelled.
	Cancel() bool
}

// Scheduler runs fn on the event loop once d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

// Dispatcher hands fn to the event loop. The window posts a custom event;
// the headless session pushes onto a channel.
type Dispatcher func(fn func())

// TimerScheduler is the wall-clock Scheduler. The timer goroutine only
// dispatches; fn and the bookkeeping below always run on the loop.
type TimerScheduler struct {
	Dispatch Dispatcher
}

// NewTimerScheduler returns a TimerScheduler that posts through dispatch.
func NewTimerScheduler(dispatch Dispatcher) *TimerScheduler {
	return &TimerScheduler{Dispatch: dispatch}
}

type timerTask struct {
	timer    *time.Timer
	canceled bool
	ran      bool
}

// AfterFunc implements Scheduler.
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) Task {
	t := &timerTask{}
	t.timer = time.AfterFunc(d, func() {
		s.Dispatch(func() {
			if t.canceled || t.ran {
				return
			}
			t.ran = true
			fn()
		})
	})
	return t
}

// Cancel must be called from the loop, like every other state change.
func (t *timerTask) Cancel() bool {
	if t.canceled || t.ran {
		return false
	}
	t.canceled = true
	t.timer.Stop()
	return true
}

// ManualScheduler is a Scheduler driven by an explicit clock. Tasks run
// synchronously inside Advance, in due order.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s        *ManualScheduler
	due      time.Duration
	seq      int
	fn       func()
	canceled bool
	ran      bool
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

// Now returns the elapsed manual time.
func (s *ManualScheduler) Now() time.Duration { return s.now }

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Task {
	s.seq++
	t := &manualTask{s: s, due: s.now + d, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Cancel implements Task.
func (t *manualTask) Cancel() bool {
	if t.canceled || t.ran {
		return false
	}
	t.canceled = true
	return true
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.canceled && !t.ran {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every task that falls due.
// Tasks scheduled by a running task are honoured if they fall inside d too.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.due
		t.ran = true
		t.fn()
	}
	s.now = target
	s.compact()
}

func (s *ManualScheduler) nextDue(limit time.Duration) *manualTask {
	var live []*manualTask
	for _, t := range s.tasks {
		if !t.canceled && !t.ran && t.due <= limit {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due == live[j].due {
			return live[i].seq < live[j].seq
		}
		return live[i].due < live[j].due
	})
	return live[0]
}

func (s *ManualScheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.canceled && !t.ran {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}
