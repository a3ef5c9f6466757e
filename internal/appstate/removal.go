package appstate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSuperseded settles a pending removal replaced by a newer one.
	ErrSuperseded = errors.New("removal superseded")
	// ErrCanceled settles a removal cancelled through its handle.
	ErrCanceled = errors.New("removal canceled")
)

// RemovalPolicy decides what happens to pending removals when another one is
// scheduled.
type RemovalPolicy int

const (
	// PolicyCoexist lets every scheduled removal fire independently.
	PolicyCoexist RemovalPolicy = iota
	// PolicySupersede cancels pending removals when a new one is scheduled.
	PolicySupersede
)

// String implements fmt.Stringer.
func (p RemovalPolicy) String() string {
	switch p {
	case PolicySupersede:
		return "supersede"
	default:
		return "coexist"
	}
}

// ParseRemovalPolicy parses the config and flag spelling of a policy.
func ParseRemovalPolicy(s string) (RemovalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "coexist":
		return PolicyCoexist, nil
	case "supersede":
		return PolicySupersede, nil
	}
	return PolicyCoexist, fmt.Errorf("unknown removal policy %q", s)
}

// Outcome is how a clear request ended. Err is nil on success.
type Outcome struct {
	ID  int
	Err error
}

// Message is the log line for o.
func (o Outcome) Message() string {
	if o.Err == nil {
		return "Circle cleared successfully."
	}
	if o.ID == 0 {
		return fmt.Sprintf("Clear failed: %v.", o.Err)
	}
	return fmt.Sprintf("Clear of circle %d failed: %v.", o.ID, o.Err)
}

// Removal is the handle for a scheduled deletion. It settles exactly once.
type Removal struct {
	ID int

	task     Task
	done     chan Outcome
	settled  bool
	onSettle func(*Removal, Outcome)
}

func newRemoval(id int, onSettle func(*Removal, Outcome)) *Removal {
	return &Removal{ID: id, done: make(chan Outcome, 1), onSettle: onSettle}
}

// Done receives the outcome once the removal has settled.
func (r *Removal) Done() <-chan Outcome { return r.done }

// Settled reports whether the removal has fired or been cancelled.
func (r *Removal) Settled() bool { return r.settled }

// Cancel stops a pending removal, settling it with ErrCanceled. It reports
// false when the removal had already settled. Call it on the event loop.
func (r *Removal) Cancel() bool {
	return r.cancelWith(ErrCanceled)
}

func (r *Removal) cancelWith(err error) bool {
	if r.settled {
		return false
	}
	if r.task != nil {
		r.task.Cancel()
	}
	r.settle(Outcome{ID: r.ID, Err: err})
	return true
}

func (r *Removal) settle(o Outcome) {
	if r.settled {
		return
	}
	r.settled = true
	r.done <- o
	if r.onSettle != nil {
		r.onSettle(r, o)
	}
}
