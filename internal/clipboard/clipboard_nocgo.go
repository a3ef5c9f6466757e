//go:build !cgo && !windows

package clipboard

import (
	"errors"
	"image"
)

var errCGODisabled = errors.New("clipboard operations require cgo support")

func initBackend() error { return errCGODisabled }

// WriteImage always fails without cgo.
func WriteImage(image.Image) error {
	return ensureInit()
}

// ReadImage always fails without cgo.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return nil, errCGODisabled
}
