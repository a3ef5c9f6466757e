//go:build !linux

package platform

// Notify displays a desktop notification through the native notification
// centre: Notification Center on macOS, toasts on Windows, the zenity
// helper elsewhere.
func Notify(title, body string, opts Options) error {
	return notifyZenity(title, body, opts)
}
