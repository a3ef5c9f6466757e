// Package render draws circles onto raster overlays and composites the
// overlay onto the loaded image.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/example/circlemark/internal/circles"
)

// DefaultOutlineWidth is the stroke width of the circle outline in pixels.
const DefaultOutlineWidth = 2.0

// Renderer redraws an overlay from the current circles.
type Renderer struct {
	OutlineColor color.Color
	OutlineWidth float64
}

// New returns a Renderer with a black outline of DefaultOutlineWidth.
func New() *Renderer {
	return &Renderer{OutlineColor: color.Black, OutlineWidth: DefaultOutlineWidth}
}

// Redraw clears dst to transparent and draws cs in order, so later circles
// paint over earlier ones.
func (r *Renderer) Redraw(dst *image.RGBA, cs []circles.Circle) {
	if dst == nil {
		return
	}
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	dc := gg.NewContextForRGBA(dst)
	for _, c := range cs {
		r.DrawCircle(dc, c)
	}
}

// DrawCircle fills c and strokes its outline on dc.
func (r *Renderer) DrawCircle(dc *gg.Context, c circles.Circle) {
	dc.DrawCircle(c.X, c.Y, c.Radius)
	dc.SetColor(c.Color)
	dc.FillPreserve()
	dc.SetColor(r.outline())
	dc.SetLineWidth(r.width())
	dc.Stroke()
}

// DrawCircle draws c with the default outline.
func DrawCircle(dc *gg.Context, c circles.Circle) {
	New().DrawCircle(dc, c)
}

func (r *Renderer) outline() color.Color {
	if r.OutlineColor == nil {
		return color.Black
	}
	return r.OutlineColor
}

func (r *Renderer) width() float64 {
	if r.OutlineWidth <= 0 {
		return DefaultOutlineWidth
	}
	return r.OutlineWidth
}

// Compose returns a new image with overlay drawn over bg. A nil bg yields a
// white surface the size of overlay.
func Compose(bg image.Image, overlay *image.RGBA) *image.RGBA {
	var bounds image.Rectangle
	switch {
	case overlay != nil:
		bounds = overlay.Bounds()
	case bg != nil:
		bounds = bg.Bounds()
	default:
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if bg != nil {
		draw.Draw(out, out.Bounds(), bg, bg.Bounds().Min, draw.Src)
	} else {
		draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	}
	if overlay != nil {
		draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	}
	return out
}
