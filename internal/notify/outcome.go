// Package notify reports events to the user: desktop notifications, modal
// alerts and the coloured removal outcome log.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// OutcomeLog prints removal outcomes, successes in green and failures in red.
type OutcomeLog struct {
	mu   sync.Mutex
	w    io.Writer
	ok   *color.Color
	fail *color.Color
}

// NewOutcomeLog writes to w, or to a colour-aware stderr when w is nil.
func NewOutcomeLog(w io.Writer) *OutcomeLog {
	if w == nil {
		w = color.Error
	}
	return &OutcomeLog{
		w:    w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
}

// Plain turns colour off for this log.
func (l *OutcomeLog) Plain() *OutcomeLog {
	l.ok.DisableColor()
	l.fail.DisableColor()
	return l
}

// Report prints msg. A non-nil err marks it as a failure.
func (l *OutcomeLog) Report(msg string, err error) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var werr error
	if err != nil {
		_, werr = l.fail.Fprintf(l.w, "✗ %s\n", msg)
	} else {
		_, werr = l.ok.Fprintf(l.w, "✓ %s\n", msg)
	}
	if werr != nil {
		fmt.Printf("outcome log: %v\n", werr)
	}
}
