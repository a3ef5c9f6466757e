package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/circlemark/internal/circles"
)

func TestRedrawFillsAndOutlines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fill := color.RGBA{R: 200, G: 40, B: 10, A: 255}
	New().Redraw(img, []circles.Circle{{ID: 1, X: 50, Y: 50, Radius: 20, Color: fill}})

	if got := img.RGBAAt(50, 50); got != fill {
		t.Fatalf("centre pixel %+v, want %+v", got, fill)
	}
	edge := img.RGBAAt(70, 50)
	if edge.A == 0 || edge.R > 100 {
		t.Fatalf("expected dark outline at edge, got %+v", edge)
	}
	if got := img.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("expected transparent corner, got %+v", got)
	}
}

func TestRedrawClearsPreviousFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := New()
	c := circles.Circle{ID: 1, X: 20, Y: 20, Radius: 10, Color: color.RGBA{G: 255, A: 255}}
	r.Redraw(img, []circles.Circle{c})
	c.X, c.Y = 80, 80
	r.Redraw(img, []circles.Circle{c})
	if got := img.RGBAAt(20, 20); got.A != 0 {
		t.Fatalf("old position not cleared: %+v", got)
	}
	if got := img.RGBAAt(80, 80); got.G != 255 {
		t.Fatalf("new position not drawn: %+v", got)
	}
}

func TestRedrawInsertionOrderPaintsLastOnTop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	New().Redraw(img, []circles.Circle{
		{ID: 1, X: 30, Y: 30, Radius: 20, Color: red},
		{ID: 2, X: 30, Y: 30, Radius: 15, Color: blue},
	})
	if got := img.RGBAAt(30, 30); got != blue {
		t.Fatalf("expected later circle on top, got %+v", got)
	}
}

func TestCompose(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 4, 4))
	bgCol := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			bg.Set(x, y, bgCol)
		}
	}
	overlay := image.NewRGBA(image.Rect(0, 0, 4, 4))
	top := color.RGBA{R: 255, A: 255}
	overlay.Set(1, 1, top)

	out := Compose(bg, overlay)
	if got := out.RGBAAt(1, 1); got != top {
		t.Fatalf("overlay pixel %+v, want %+v", got, top)
	}
	if got := out.RGBAAt(0, 0); got != bgCol {
		t.Fatalf("background pixel %+v, want %+v", got, bgCol)
	}
	if got := bg.RGBAAt(1, 1); got != bgCol {
		t.Fatalf("background mutated: %+v", got)
	}
}

func TestComposeWithoutBackground(t *testing.T) {
	overlay := image.NewRGBA(image.Rect(0, 0, 3, 3))
	out := Compose(nil, overlay)
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("expected white fill, got %+v", got)
	}
}
