// Package capture grabs the desktop as an image to use as a canvas background.
package capture

import (
	"fmt"
	"image"
	"image/draw"
)

// Options controls a desktop capture.
type Options struct {
	// Interactive lets the portal show its own picker before capturing.
	Interactive bool
	// IncludeCursor asks the portal to embed the pointer.
	IncludeCursor bool
	// Rect crops the capture to a rectangle in screen coordinates when set.
	Rect image.Rectangle
}

// Backends used by Screenshot. Tests swap them.
var (
	portalBackend = portalScreenshot
	x11Backend    = x11Screenshot
)

// Screenshot captures the desktop through the xdg desktop portal and falls
// back to reading the X11 root window when the portal is unavailable.
func Screenshot(opts Options) (*image.RGBA, error) {
	img, portalErr := portalBackend(opts)
	if portalErr != nil {
		var err error
		img, err = x11Backend()
		if err != nil {
			return nil, fmt.Errorf("capture: portal: %v; x11 fallback: %w", portalErr, err)
		}
	}
	if opts.Rect.Empty() {
		return img, nil
	}
	return cropToRect(img, opts.Rect)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
