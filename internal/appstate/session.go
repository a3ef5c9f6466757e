package appstate

import (
	"image"
	"image/draw"
	"time"

	"github.com/example/circlemark/internal/circles"
	"github.com/example/circlemark/internal/render"
)

// RemovalDelay is how long a cleared circle stays on the canvas.
const RemovalDelay = 3 * time.Second

// DefaultCanvasSize is the blank canvas used until an image is loaded.
var DefaultCanvasSize = image.Pt(300, 150)

// PointerState names the three states of the pointer controller.
type PointerState int

const (
	Idle PointerState = iota
	SelectedIdle
	Dragging
)

func (s PointerState) String() string {
	switch s {
	case SelectedIdle:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Session is the state of one canvas: the circle store, the selection and the
// scheduled removals. Every method must be called from the goroutine that
// runs the event loop; timers come back through the Scheduler.
type Session struct {
	store    *circles.Store
	factory  *circles.Factory
	sched    Scheduler
	policy   RemovalPolicy
	delay    time.Duration
	renderer *render.Renderer

	size       image.Point
	background *image.RGBA
	overlay    *image.RGBA

	selected int
	dragging bool
	pending  []*Removal

	onAlert   func(error)
	onOutcome func(Outcome)
	onChange  func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPolicy sets the removal policy.
func WithPolicy(p RemovalPolicy) SessionOption { return func(s *Session) { s.policy = p } }

// WithDelay overrides RemovalDelay.
func WithDelay(d time.Duration) SessionOption { return func(s *Session) { s.delay = d } }

// WithFactory sets the circle generator.
func WithFactory(f *circles.Factory) SessionOption { return func(s *Session) { s.factory = f } }

// WithRenderer sets the overlay renderer.
func WithRenderer(r *render.Renderer) SessionOption { return func(s *Session) { s.renderer = r } }

// WithAlert registers the capacity notice. It is called synchronously.
func WithAlert(fn func(error)) SessionOption { return func(s *Session) { s.onAlert = fn } }

// WithOutcome registers the removal outcome reporter.
func WithOutcome(fn func(Outcome)) SessionOption { return func(s *Session) { s.onOutcome = fn } }

// WithChange registers a callback run after every redraw.
func WithChange(fn func()) SessionOption { return func(s *Session) { s.onChange = fn } }

// NewSession returns a Session on a blank DefaultCanvasSize canvas.
func NewSession(sched Scheduler, opts ...SessionOption) *Session {
	s := &Session{
		store:    circles.NewStore(),
		sched:    sched,
		delay:    RemovalDelay,
		size:     DefaultCanvasSize,
		renderer: render.New(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.factory == nil {
		s.factory = circles.NewFactory(0)
	}
	s.overlay = image.NewRGBA(image.Rectangle{Max: s.size})
	s.Redraw()
	return s
}

// LoadImage makes img the background and resizes the canvas to its natural
// size. Circles are kept where they are. A nil img is ignored.
func (s *Session) LoadImage(img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	bg := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(bg, bg.Bounds(), img, b.Min, draw.Src)
	s.background = bg
	s.size = bg.Bounds().Size()
	s.overlay = image.NewRGBA(bg.Bounds())
	s.Redraw()
}

// AddCircle draws a random circle inside the canvas. When the store is full
// the alert fires and circles.ErrCapacity is returned with nothing changed.
func (s *Session) AddCircle() (circles.Circle, error) {
	if s.store.Full() {
		if s.onAlert != nil {
			s.onAlert(circles.ErrCapacity)
		}
		return circles.Circle{}, circles.ErrCapacity
	}
	c, err := s.store.Add(s.factory.New(float64(s.size.X), float64(s.size.Y)))
	if err != nil {
		return circles.Circle{}, err
	}
	s.Redraw()
	return c, nil
}

// Press selects the first circle under p in insertion order and starts a
// drag. A miss leaves the selection as it was and reports false.
func (s *Session) Press(p circles.Point) bool {
	for _, c := range s.store.All() {
		if circles.HitTest(c, p) {
			s.selected = c.ID
			s.dragging = true
			return true
		}
	}
	return false
}

// Move drags the selected circle to p, clamped so it stays on the canvas.
// It reports whether anything moved.
func (s *Session) Move(p circles.Point) bool {
	if !s.dragging || s.selected == 0 {
		return false
	}
	c, ok := s.store.Get(s.selected)
	if !ok {
		return false
	}
	np := circles.ClampCenter(p, c.Radius, float64(s.size.X), float64(s.size.Y))
	s.store.MoveTo(c.ID, np)
	s.Redraw()
	return true
}

// Release ends a drag. The selection is kept.
func (s *Session) Release() { s.dragging = false }

// Leave is the pointer leaving the canvas. It behaves like Release.
func (s *Session) Leave() { s.dragging = false }

// ClearSelected schedules removal of the selected circle after the session
// delay. The selection is cleared straight away. With nothing selected the
// outcome is reported and circles.ErrNoSelection returned without scheduling.
func (s *Session) ClearSelected() (*Removal, error) {
	if s.selected == 0 {
		s.report(Outcome{Err: circles.ErrNoSelection})
		return nil, circles.ErrNoSelection
	}
	id := s.selected
	s.selected = 0
	s.dragging = false

	if s.policy == PolicySupersede {
		for _, r := range append([]*Removal(nil), s.pending...) {
			r.cancelWith(ErrSuperseded)
		}
	}

	r := newRemoval(id, s.settled)
	s.pending = append(s.pending, r)
	r.task = s.sched.AfterFunc(s.delay, func() { s.fire(r) })
	return r, nil
}

func (s *Session) fire(r *Removal) {
	if r.settled {
		return
	}
	if !s.store.Remove(r.ID) {
		r.settle(Outcome{ID: r.ID, Err: circles.ErrNotFound})
		return
	}
	if s.selected == r.ID {
		s.selected = 0
		s.dragging = false
	}
	s.Redraw()
	r.settle(Outcome{ID: r.ID})
}

func (s *Session) settled(r *Removal, o Outcome) {
	for i, p := range s.pending {
		if p == r {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	s.report(o)
}

func (s *Session) report(o Outcome) {
	if s.onOutcome != nil {
		s.onOutcome(o)
	}
}

// Redraw repaints the overlay from the store.
func (s *Session) Redraw() {
	s.renderer.Redraw(s.overlay, s.store.All())
	if s.onChange != nil {
		s.onChange()
	}
}

// Composite returns the background with the circles drawn over it.
func (s *Session) Composite() *image.RGBA {
	var bg image.Image
	if s.background != nil {
		bg = s.background
	}
	return render.Compose(bg, s.overlay)
}

// Background returns the loaded image, or nil before any load.
func (s *Session) Background() *image.RGBA { return s.background }

// Overlay returns the circle layer. It is redrawn in place.
func (s *Session) Overlay() *image.RGBA { return s.overlay }

// Circles returns the circles in insertion order.
func (s *Session) Circles() []circles.Circle { return s.store.All() }

// Selected returns the selected id, or 0 when nothing is selected.
func (s *Session) Selected() int { return s.selected }

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool { return s.dragging }

// State returns the pointer controller state.
func (s *Session) State() PointerState {
	switch {
	case s.dragging:
		return Dragging
	case s.selected != 0:
		return SelectedIdle
	default:
		return Idle
	}
}

// Pending returns the removals that have not settled yet.
func (s *Session) Pending() []*Removal { return append([]*Removal(nil), s.pending...) }

// Size returns the canvas size in pixels.
func (s *Session) Size() image.Point { return s.size }

// Policy returns the removal policy.
func (s *Session) Policy() RemovalPolicy { return s.policy }
