// Package loader turns files, the clipboard and screen captures into RGBA
// backgrounds for the canvas.
package loader

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/circlemark/internal/capture"
	"github.com/example/circlemark/internal/clipboard"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Sources used by FromClipboard and FromCapture. Tests swap them.
var (
	readClipboard = clipboard.ReadImage
	screenshot    = capture.Screenshot
)

// Decode reads any registered image format and returns it as RGBA with a
// zero origin.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	rgba, err := toRGBA(img)
	if err != nil {
		return nil, format, err
	}
	return rgba, format, nil
}

// Load opens and decodes the file at path.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
	}()
	img, format, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("loaded %s (%s, %dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// LoadAsync decodes path on its own goroutine and hands the result to fn
// through dispatch, so fn runs on the caller's event loop.
func LoadAsync(path string, dispatch func(func()), fn func(*image.RGBA, error)) {
	go func() {
		img, err := Load(path)
		dispatch(func() { fn(img, err) })
	}()
}

// FromClipboard returns the image currently on the clipboard.
func FromClipboard() (*image.RGBA, error) {
	img, err := readClipboard()
	if err != nil {
		return nil, fmt.Errorf("clipboard: %w", err)
	}
	return toRGBA(img)
}

// FromCapture captures the desktop.
func FromCapture(opts capture.Options) (*image.RGBA, error) {
	img, err := screenshot(opts)
	if err != nil {
		return nil, err
	}
	return toRGBA(img)
}

func toRGBA(img image.Image) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
