//go:build linux

package platform

import "testing"

func TestNotifyHints(t *testing.T) {
	hints := notifyHints(Options{})
	if got := hints["desktop-entry"].Value().(string); got != AppName {
		t.Fatalf("desktop-entry = %q", got)
	}
	if _, ok := hints["urgency"]; ok {
		t.Fatal("urgency set for a normal notification")
	}

	hints = notifyHints(Options{Urgent: true})
	if got := hints["urgency"].Value().(byte); got != 2 {
		t.Fatalf("urgency = %d, want 2", got)
	}
}
