package notify

import (
	"bytes"
	"errors"
	"image"
	"os"
	"strings"
	"testing"

	"github.com/example/circlemark/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func captureNotify(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := platformNotify
	platformNotify = func(title, body string, opts platform.Options) error {
		got = append(got, sent{title, body, opts})
		return nil
	}
	t.Cleanup(func() { platformNotify = prev })
	return &got
}

func TestNotifierDisabledByDefault(t *testing.T) {
	got := captureNotify(t)
	n := New(DefaultPreferences())
	n.Save("out.png")
	n.Copy("", nil)
	n.Capacity("Maximum of 5 circles reached.")
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(*got))
	}
}

func TestNilNotifier(t *testing.T) {
	captureNotify(t)
	var n *Notifier
	n.Enable(EventSave, true)
	n.Save("x.png")
	if n.Enabled(EventSave) {
		t.Fatal("nil notifier reports enabled")
	}
	if n.Title() != "circlemark" {
		t.Fatalf("title %q", n.Title())
	}
}

func TestNotifierCapacityAndCopy(t *testing.T) {
	got := captureNotify(t)
	n := New(DefaultPreferences())
	n.Enable(EventCapacity, true)
	n.Enable(EventCopy, true)

	n.Capacity("Maximum of 5 circles reached.")
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))

	if len(*got) != 2 {
		t.Fatalf("sent %d, want 2", len(*got))
	}
	if (*got)[0].body != "Maximum of 5 circles reached." || (*got)[0].title != "circlemark" {
		t.Fatalf("capacity = %+v", (*got)[0])
	}
	if !(*got)[0].opts.Urgent {
		t.Fatal("capacity notice should be urgent")
	}
	if (*got)[1].body != "Copied image to clipboard" {
		t.Fatalf("copy body %q", (*got)[1].body)
	}
	icon := (*got)[1].opts.IconPath
	if icon == "" {
		t.Fatal("copy notification has no preview")
	}
	if _, err := os.Stat(icon); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preview %s not cleaned up", icon)
	}
}

func TestNotifierSaveUsesAbsolutePath(t *testing.T) {
	got := captureNotify(t)
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save("relative/out.pdf")
	if len(*got) != 1 {
		t.Fatalf("sent %d", len(*got))
	}
	body := (*got)[0].body
	if !strings.HasPrefix(body, "Saved /") || !strings.HasSuffix(body, "relative/out.pdf") {
		t.Fatalf("body %q", body)
	}
	if (*got)[0].opts.IconPath != "" {
		t.Fatal("icon set for a missing file")
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("CIRCLEMARK_NOTIFY_TITLE", "Circles")
	t.Setenv("CIRCLEMARK_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Circles" {
		t.Fatalf("title %q", prefs.Title)
	}
	if prefs.Events[EventSave].Template != "Wrote %s" {
		t.Fatalf("save template %q", prefs.Events[EventSave].Template)
	}
	if prefs.Events[EventCopy].Template != DefaultPreferences().Events[EventCopy].Template {
		t.Fatal("copy template changed without override")
	}
}

func TestNotifyErrorIsLoggedNotReturned(t *testing.T) {
	prev := platformNotify
	platformNotify = func(string, string, platform.Options) error { return errors.New("no bus") }
	t.Cleanup(func() { platformNotify = prev })
	n := New(DefaultPreferences())
	n.Enable(EventCapacity, true)
	n.Capacity("full")
}

func TestAlertWrapsError(t *testing.T) {
	prev := platformAlert
	t.Cleanup(func() { platformAlert = prev })

	var title, msg string
	platformAlert = func(tl, m string) error { title, msg = tl, m; return nil }
	if err := Alert("circlemark", "Maximum of 5 circles reached."); err != nil {
		t.Fatalf("Alert: %v", err)
	}
	if title != "circlemark" || msg != "Maximum of 5 circles reached." {
		t.Fatalf("alert got %q %q", title, msg)
	}

	boom := errors.New("no display")
	platformAlert = func(string, string) error { return boom }
	if err := Alert("t", "m"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestOutcomeLog(t *testing.T) {
	var buf bytes.Buffer
	l := NewOutcomeLog(&buf).Plain()
	l.Report("Circle cleared successfully.", nil)
	l.Report("Clear failed: no circle is selected.", errors.New("no circle is selected"))
	want := "✓ Circle cleared successfully.\n✗ Clear failed: no circle is selected.\n"
	if buf.String() != want {
		t.Fatalf("log = %q, want %q", buf.String(), want)
	}
}

func TestOutcomeLogNil(t *testing.T) {
	var l *OutcomeLog
	l.Report("ignored", nil)
}
