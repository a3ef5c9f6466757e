package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"

	"github.com/example/circlemark/internal/circles"
	"github.com/example/circlemark/internal/theme"
)

const (
	titleHeight  = 24
	bottomHeight = 24
	buttonHeight = 24
)

var toolbarWidth = 48

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// messageDuration is how long a status message stays on screen.
const messageDuration = 2 * time.Second

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
// It delegates all interface methods to the wrapped Button while
// caching the result of Draw for each state.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a toolbar button that runs a named action.
type ActionButton struct {
	label      string
	action     string
	rect       image.Rectangle
	theme      *theme.Theme
	onActivate func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	th := ab.theme
	if th == nil {
		th = theme.Default()
	}
	c := buttonColor(th, state)
	draw.Draw(dst, ab.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	drawRect(dst, ab.rect, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(ab.rect.Min.X+4, ab.rect.Min.Y+16)}
	d.DrawString(ab.label)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) {
	if r != ab.rect {
		ab.rect = r
	}
}

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// Shortcut is a clickable entry in the bottom bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
	theme  *theme.Theme
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	th := s.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, s.rect, &image.Uniform{buttonColor(th, state)}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func buttonColor(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

// toolbarButton pairs a label with the action it triggers.
type toolbarButton struct {
	label  string
	action string
}

var toolbarButtons = []toolbarButton{
	{"O:Open", "open"},
	{"N:Circle", "add"},
	{"Del:Clear", "clear"},
	{"^S:Save", "save"},
	{"^C:Copy", "copy"},
	{"Q:Quit", "quit"},
}

var shortcutLabels = []toolbarButton{
	{"O:open", "open"},
	{"N:draw circle", "add"},
	{"Del:clear selected", "clear"},
	{"^S:save", "save"},
	{"^C:copy", "copy"},
	{"Q:quit", "quit"},
}

// toolbarRect is the rectangle of toolbar button i. The toolbar is anchored
// below the title bar so the layout does not depend on the window size.
func toolbarRect(i int) image.Rectangle {
	y := titleHeight + i*buttonHeight
	return image.Rect(0, y, toolbarWidth, y+buttonHeight)
}

// layoutShortcuts positions the bottom bar entries for a window of the given
// height.
func layoutShortcuts(height int, th *theme.Theme) []Shortcut {
	out := make([]Shortcut, 0, len(shortcutLabels))
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for _, sl := range shortcutLabels {
		w := meas.MeasureString(sl.label).Ceil()
		sc := Shortcut{label: sl.label, action: sl.action, theme: th}
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		out = append(out, sc)
		x = sc.rect.Max.X + 8
	}
	return out
}

// canvasArea is the part of the window left for the canvas.
func canvasArea(width, height int) image.Rectangle {
	return image.Rect(toolbarWidth, titleHeight, width, height-bottomHeight)
}

// measureToolbar returns the width that fits every button label.
func measureToolbar() int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := 0
	for _, tb := range toolbarButtons {
		if w := d.MeasureString(tb.label).Ceil() + 8; w > max {
			max = w
		}
	}
	return max
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

// paintState is a snapshot of everything a frame needs. The painter goroutine
// only reads it, so nothing in it may be mutated by the event loop afterwards.
type paintState struct {
	width, height int
	title         string
	canvasSize    image.Point
	background    *image.RGBA
	overlay       *image.RGBA
	circles       []circles.Circle
	selected      int
	hoverTool     int
	pressedTool   int
	hoverShortcut int
	message       string
	messageUntil  time.Time
}

// painter owns the back buffer drawing. It runs on its own goroutine.
type painter struct {
	theme    *theme.Theme
	buttons  []*CacheButton
	backdrop *image.RGBA
}

func newPainter(th *theme.Theme) *painter {
	p := &painter{theme: th}
	for i, tb := range toolbarButtons {
		ab := &ActionButton{label: tb.label, action: tb.action, theme: th}
		ab.SetRect(toolbarRect(i))
		p.buttons = append(p.buttons, &CacheButton{Button: ab})
	}
	return p
}

// drawBackdrop fills dst with a cached checkerboard pattern.
func (p *painter) drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	if p.backdrop == nil || p.backdrop.Bounds() != b {
		p.backdrop = image.NewRGBA(b)
		drawCheckerboard(p.backdrop, b, 8, p.theme.CheckerLight, p.theme.CheckerDark)
	}
	draw.Draw(dst, b, p.backdrop, image.Point{}, draw.Src)
}

func (p *painter) drawTitle(dst *image.RGBA, width int, title string) {
	draw.Draw(dst, image.Rect(0, 0, width, titleHeight),
		&image.Uniform{p.theme.TitleBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(p.theme.TitleText), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString(title)
}

func (p *painter) drawToolbar(dst *image.RGBA, height, hover, pressed int) {
	draw.Draw(dst, image.Rect(0, titleHeight, toolbarWidth, height-bottomHeight),
		&image.Uniform{p.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, cb := range p.buttons {
		state := StateDefault
		if i == pressed {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

func (p *painter) drawShortcuts(dst *image.RGBA, width, height, hover int) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{p.theme.StatusBackground}, image.Point{}, draw.Src)
	for i, sc := range layoutShortcuts(height, p.theme) {
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		sc.Draw(dst, state)
	}
}

// drawCanvas scales the background and overlay into the canvas area and rings
// the selected circle.
func (p *painter) drawCanvas(dst *image.RGBA, st paintState) {
	area := canvasArea(st.width, st.height)
	draw.Draw(dst, area, &image.Uniform{p.theme.Background}, image.Point{}, draw.Src)
	view := fitRect(st.canvasSize, area)
	if view.Empty() {
		return
	}
	if st.background != nil {
		xdraw.NearestNeighbor.Scale(dst, view, st.background, st.background.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(dst, view, image.White, image.Point{}, draw.Src)
	}
	if st.overlay != nil {
		xdraw.NearestNeighbor.Scale(dst, view, st.overlay, st.overlay.Bounds(), draw.Over, nil)
	}
	if st.selected == 0 {
		return
	}
	scale := float64(view.Dx()) / float64(st.canvasSize.X)
	for _, c := range st.circles {
		if c.ID != st.selected {
			continue
		}
		dc := gg.NewContextForRGBA(dst)
		dc.DrawRectangle(float64(view.Min.X), float64(view.Min.Y), float64(view.Dx()), float64(view.Dy()))
		dc.Clip()
		dc.DrawCircle(float64(view.Min.X)+c.X*scale, float64(view.Min.Y)+c.Y*scale, c.Radius*scale+3)
		dc.SetColor(p.theme.SelectionOutline)
		dc.SetLineWidth(2)
		dc.SetDash(4, 3)
		dc.Stroke()
	}
}

func (p *painter) drawMessage(dst *image.RGBA, st paintState) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(p.theme.Foreground), Face: messageFace}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (st.width - wmsg) / 2
	py := (st.height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{p.theme.MessageBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, p.theme.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}

// frame renders st into dst.
func (p *painter) frame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	p.drawBackdrop(dst)
	p.drawCanvas(dst, st)
	if ctx.Err() != nil {
		return false
	}
	p.drawTitle(dst, st.width, st.title)
	p.drawToolbar(dst, st.height, st.hoverTool, st.pressedTool)
	p.drawShortcuts(dst, st.width, st.height, st.hoverShortcut)
	if ctx.Err() != nil {
		return false
	}
	if st.message != "" && time.Now().Before(st.messageUntil) {
		p.drawMessage(dst, st)
	}
	return ctx.Err() == nil
}

func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	if !p.frame(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// windowTitle is the title bar text.
func windowTitle(name, session string, n int) string {
	if session == "" {
		return fmt.Sprintf("%s  %d/%d circles", name, n, circles.MaxCircles)
	}
	return fmt.Sprintf("%s [%s]  %d/%d circles", name, session, n, circles.MaxCircles)
}
