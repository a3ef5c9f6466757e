// Package platform wraps host services: desktop notifications and native
// dialogs.
package platform

// AppName identifies the program to notification servers.
const AppName = "circlemark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgent asks the server to keep the notification up until dismissed.
	Urgent bool
}
