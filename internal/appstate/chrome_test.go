package appstate

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/example/circlemark/internal/circles"
	"github.com/example/circlemark/internal/render"
	"github.com/example/circlemark/internal/theme"
)

func testFrame(t *testing.T, st paintState) (*image.RGBA, *theme.Theme) {
	t.Helper()
	th := theme.Default()
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	if !newPainter(th).frame(context.Background(), dst, st) {
		t.Fatal("frame reported cancellation")
	}
	return dst, th
}

func TestFrameDrawsCanvasAndChrome(t *testing.T) {
	c := circles.Circle{ID: 1, X: 150, Y: 75, Radius: 20, Color: color.RGBA{200, 10, 10, 255}}
	overlay := image.NewRGBA(image.Rect(0, 0, 300, 150))
	render.New().Redraw(overlay, []circles.Circle{c})

	st := paintState{
		width:         300 + toolbarWidth,
		height:        150 + titleHeight + bottomHeight,
		title:         "circlemark",
		canvasSize:    image.Pt(300, 150),
		overlay:       overlay,
		circles:       []circles.Circle{c},
		selected:      1,
		hoverTool:     0,
		pressedTool:   -1,
		hoverShortcut: -1,
	}
	dst, th := testFrame(t, st)

	if got := dst.RGBAAt(toolbarWidth+150, titleHeight+75); got != c.Color {
		t.Fatalf("circle centre %v, want %v", got, c.Color)
	}
	if got := dst.RGBAAt(toolbarWidth+1, titleHeight+1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("blank canvas %v, want white", got)
	}
	if got := dst.RGBAAt(st.width-1, 1); got != th.TitleBackground {
		t.Fatalf("title bar %v", got)
	}
	if got := dst.RGBAAt(toolbarWidth-2, titleHeight+buttonHeight-3); got != th.ButtonBackgroundHover {
		t.Fatalf("hovered button %v", got)
	}
	if got := dst.RGBAAt(toolbarWidth-2, titleHeight+2*buttonHeight-3); got != th.ButtonBackground {
		t.Fatalf("idle button %v", got)
	}
	if got := dst.RGBAAt(st.width-1, st.height-1); got != th.StatusBackground {
		t.Fatalf("shortcut bar %v", got)
	}
}

func TestFrameScalesBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 100, 50))
	blue := color.RGBA{0, 0, 255, 255}
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			bg.SetRGBA(x, y, blue)
		}
	}
	st := paintState{
		width:         200 + toolbarWidth,
		height:        100 + titleHeight + bottomHeight,
		canvasSize:    image.Pt(100, 50),
		background:    bg,
		overlay:       image.NewRGBA(bg.Bounds()),
		hoverTool:     -1,
		pressedTool:   -1,
		hoverShortcut: -1,
	}
	dst, _ := testFrame(t, st)
	// doubled to fill the 200x100 area
	if got := dst.RGBAAt(toolbarWidth+199, titleHeight+99); got != blue {
		t.Fatalf("scaled corner %v", got)
	}
}

func TestFrameSkipsExpiredMessage(t *testing.T) {
	st := paintState{
		width:         300 + toolbarWidth,
		height:        150 + titleHeight + bottomHeight,
		canvasSize:    image.Pt(300, 150),
		hoverTool:     -1,
		pressedTool:   -1,
		hoverShortcut: -1,
		message:       "saved",
		messageUntil:  time.Now().Add(-time.Second),
	}
	dst, _ := testFrame(t, st)
	mid := image.Pt(st.width/2, st.height/2)
	if got := dst.RGBAAt(mid.X, mid.Y); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("expired message still drawn: %v", got)
	}
}

func TestFrameHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	st := paintState{width: 100, height: 100, canvasSize: image.Pt(10, 10)}
	if newPainter(theme.Default()).frame(ctx, dst, st) {
		t.Fatal("cancelled frame reported success")
	}
}

func TestLayoutShortcutsInBottomBar(t *testing.T) {
	bar := layoutShortcuts(200, theme.Default())
	if len(bar) != len(shortcutLabels) {
		t.Fatalf("got %d shortcuts", len(bar))
	}
	for i, sc := range bar {
		if sc.rect.Min.Y < 200-bottomHeight || sc.rect.Max.Y > 200 {
			t.Fatalf("%s outside the bar: %v", sc.label, sc.rect)
		}
		if i > 0 && sc.rect.Min.X < bar[i-1].rect.Max.X {
			t.Fatalf("%s overlaps %s", sc.label, bar[i-1].label)
		}
	}
}

func TestToolbarRect(t *testing.T) {
	if got := toolbarRect(0); got != image.Rect(0, titleHeight, toolbarWidth, titleHeight+buttonHeight) {
		t.Fatalf("first button %v", got)
	}
	if toolbarRect(2).Min.Y != toolbarRect(1).Max.Y {
		t.Fatal("buttons are not stacked")
	}
}

func TestCacheButtonInvalidatesOnMove(t *testing.T) {
	ab := &ActionButton{label: "x", theme: theme.Default()}
	ab.SetRect(image.Rect(0, 0, 10, 10))
	cb := &CacheButton{Button: ab}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	cb.Draw(dst, StateDefault)
	if cb.cache[StateDefault] == nil {
		t.Fatal("state not cached")
	}
	cb.SetRect(image.Rect(20, 20, 30, 30))
	if cb.cache[StateDefault] != nil {
		t.Fatal("cache kept after SetRect")
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("circlemark", "", 3); got != "circlemark  3/5 circles" {
		t.Fatalf("title %q", got)
	}
}
