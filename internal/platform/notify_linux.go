//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// notifyTimeout is how long the notification server shows a message, in ms.
const notifyTimeout = int32(5000)

// Notify sends a desktop notification over the session bus using the
// freedesktop notification interface. When no server answers it falls back to
// the zenity helper.
func Notify(title, body string, opts Options) error {
	err := notifyDBus(title, body, opts)
	if err == nil {
		return nil
	}
	if zerr := notifyZenity(title, body, opts); zerr != nil {
		return fmt.Errorf("dbus: %v; zenity: %w", err, zerr)
	}
	return nil
}

func notifyDBus(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, notifyHints(opts), notifyTimeout)
	return call.Err
}

func notifyHints(opts Options) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(AppName),
	}
	if opts.Urgent {
		hints["urgency"] = dbus.MakeVariant(byte(2))
	}
	return hints
}
