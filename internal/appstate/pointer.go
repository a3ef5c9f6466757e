package appstate

import (
	"image"

	"github.com/example/circlemark/internal/circles"
)

// ToCanvas converts a window position to canvas pixel space. display is where
// the canvas is drawn on screen and backing is its pixel size. An empty
// display maps the pointer straight through with the offset removed.
func ToCanvas(x, y float64, display image.Rectangle, backing image.Point) circles.Point {
	p := circles.Point{
		X: x - float64(display.Min.X),
		Y: y - float64(display.Min.Y),
	}
	if dw := display.Dx(); dw > 0 {
		p.X *= float64(backing.X) / float64(dw)
	}
	if dh := display.Dy(); dh > 0 {
		p.Y *= float64(backing.Y) / float64(dh)
	}
	return p
}

// fitRect returns the largest rectangle with the aspect of size that fits in
// area, centred within it.
func fitRect(size image.Point, area image.Rectangle) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 || area.Empty() {
		return image.Rectangle{Min: area.Min, Max: area.Min}
	}
	zoom := fitZoom(size, area.Size())
	w := int(float64(size.X) * zoom)
	h := int(float64(size.Y) * zoom)
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func fitZoom(size, avail image.Point) float64 {
	zx := float64(avail.X) / float64(size.X)
	zy := float64(avail.Y) / float64(size.Y)
	if zy < zx {
		return zy
	}
	return zx
}
