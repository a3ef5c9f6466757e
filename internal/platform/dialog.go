package platform

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned when the user closes a dialog without choosing.
var ErrCanceled = errors.New("dialog canceled")

// ImagePatterns are the file patterns offered by SelectImageFile.
var ImagePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.tif", "*.tiff", "*.webp"}

// SelectImageFile shows the native open-file dialog filtered to images. It
// blocks until the user picks a file or cancels.
func SelectImageFile(title string) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: ImagePatterns,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("select file: %w", err)
	}
	return path, nil
}

// Alert shows a modal warning dialog and blocks until it is dismissed.
func Alert(title, message string) error {
	err := zenity.Warning(message, zenity.Title(title))
	if err != nil && !errors.Is(err, zenity.ErrCanceled) {
		return err
	}
	return nil
}

func notifyZenity(title, body string, _ Options) error {
	return zenity.Notify(body, zenity.Title(title), zenity.InfoIcon)
}
