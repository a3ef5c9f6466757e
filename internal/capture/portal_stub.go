//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"
)

func portalScreenshot(Options) (*image.RGBA, error) {
	return nil, fmt.Errorf("portal screenshot is not supported on this platform")
}

func x11Screenshot() (*image.RGBA, error) {
	return nil, fmt.Errorf("x11 screenshot is not supported on this platform")
}
