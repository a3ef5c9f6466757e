package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/circlemark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when the canvas is written to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when the canvas is copied to the clipboard.
	EventCopy Event = "copy"
	// EventCapacity emits a notification when the circle limit blocks a draw.
	EventCapacity Event = "capacity"
)

// Events lists every event in config order.
var Events = []Event{EventSave, EventCopy, EventCapacity}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "circlemark",
		Events: map[Event]EventPreference{
			EventSave:     {Template: "Saved %s"},
			EventCopy:     {Template: "Copied %s to clipboard"},
			EventCapacity: {Template: "%s"},
		},
	}
}

// LoadPreferences reads overrides from CIRCLEMARK_NOTIFY_* variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("CIRCLEMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("CIRCLEMARK_NOTIFY_SAVE_TEXT", EventSave)
	apply("CIRCLEMARK_NOTIFY_COPY_TEXT", EventCopy)
	apply("CIRCLEMARK_NOTIFY_CAPACITY_TEXT", EventCapacity)
	return prefs
}

// Platform hooks. Tests swap them.
var (
	platformNotify = platform.Notify
	platformAlert  = platform.Alert
)

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event is switched on.
func (n *Notifier) Enabled(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

// Title is the notification and dialog title.
func (n *Notifier) Title() string {
	if n == nil || n.prefs.Title == "" {
		return DefaultPreferences().Title
	}
	return n.prefs.Title
}

// Save sends a save notification naming the written file. The file doubles
// as the notification icon when it still exists.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil && strings.EqualFold(filepath.Ext(abs), ".png") {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification with a preview of img when given.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Capacity sends the circle limit notice.
func (n *Notifier) Capacity(detail string) {
	n.dispatch(EventCapacity, detail, platform.Options{Urgent: true})
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.Enabled(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := platformNotify(n.Title(), body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

// Alert shows a blocking modal dialog. It returns once the user dismisses it.
func Alert(title, message string) error {
	if err := platformAlert(title, message); err != nil {
		return fmt.Errorf("alert: %w", err)
	}
	return nil
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "circlemark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
