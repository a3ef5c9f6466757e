package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/circlemark/internal/circles"
	"github.com/example/circlemark/internal/clipboard"
	"github.com/example/circlemark/internal/export"
	"github.com/example/circlemark/internal/loader"
	"github.com/example/circlemark/internal/notify"
	"github.com/example/circlemark/internal/platform"
	"github.com/example/circlemark/internal/render"
	"github.com/example/circlemark/internal/theme"
)

// Side effects of the window actions. Tests swap them.
var (
	selectImageFile = platform.SelectImageFile
	loadAsync       = loader.LoadAsync
	writeImage      = export.Write
	copyImage       = clipboard.WriteImage
	showAlert       = notify.Alert
)

// AppState holds application configuration for the UI.
type AppState struct {
	Image       *image.RGBA
	Output      string
	Theme       *theme.Theme
	Title       string
	SessionID   string
	Policy      RemovalPolicy
	Seed        int64
	Delay       time.Duration
	Notifier    *notify.Notifier
	Outcomes    *notify.OutcomeLog
	ModalAlerts bool

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the image displayed when the window opens.
func WithImage(img *image.RGBA) Option { return func(a *AppState) { a.Image = img } }

// WithOutput sets the output file path used when saving.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the chrome colours. A nil theme keeps the default.
func WithTheme(t *theme.Theme) Option {
	return func(a *AppState) {
		if t != nil {
			a.Theme = t
		}
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithSessionID shows id in the title bar.
func WithSessionID(id string) Option { return func(a *AppState) { a.SessionID = id } }

// WithRemovalPolicy sets what a new clear does to pending removals.
func WithRemovalPolicy(p RemovalPolicy) Option { return func(a *AppState) { a.Policy = p } }

// WithSeed fixes the circle generator seed. Zero seeds from the clock.
func WithSeed(seed int64) Option { return func(a *AppState) { a.Seed = seed } }

// WithRemovalDelay overrides RemovalDelay.
func WithRemovalDelay(d time.Duration) Option { return func(a *AppState) { a.Delay = d } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOutcomeLog sets where removal outcomes are reported.
func WithOutcomeLog(l *notify.OutcomeLog) Option {
	return func(a *AppState) {
		if l != nil {
			a.Outcomes = l
		}
	}
}

// WithModalAlerts shows the capacity notice as a native modal dialog.
func WithModalAlerts(on bool) Option { return func(a *AppState) { a.ModalAlerts = on } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Output:      "annotated.png",
		Title:       "circlemark",
		Delay:       RemovalDelay,
		ModalAlerts: true,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Outcomes == nil {
		a.Outcomes = notify.NewOutcomeLog(nil)
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// dispatchEvent carries a function onto the event loop.
type dispatchEvent struct {
	fn func()
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main opens the window and runs the event loop until it closes.
func (a *AppState) Main(s screen.Screen) {
	if w := measureToolbar(); w > toolbarWidth {
		toolbarWidth = w
	}
	canvas := DefaultCanvasSize
	if a.Image != nil {
		canvas = a.Image.Bounds().Size()
	}
	width := canvas.X + toolbarWidth
	height := canvas.Y + titleHeight + bottomHeight
	if minH := titleHeight + len(toolbarButtons)*buttonHeight + bottomHeight; height < minH {
		height = minH
	}
	if minW := toolbarWidth + 480; width < minW {
		width = minW
	}

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	dispatch := func(fn func()) { w.Send(dispatchEvent{fn: fn}) }
	repaint := func() { w.Send(paint.Event{}) }
	c := a.newController(NewTimerScheduler(dispatch), dispatch, repaint)
	c.width, c.height = width, height

	p := newPainter(a.Theme)
	frames := startPaintLoop(func(ctx context.Context, st paintState) { p.drawFrame(ctx, s, w, st) })
	// the painter may still be uploading; the window outlives it
	defer frames.close()

	for {
		switch e := w.NextEvent().(type) {
		case dispatchEvent:
			e.fn()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				frames.interrupt()
				return
			}
		case size.Event:
			c.width = e.WidthPx
			c.height = e.HeightPx
			repaint()
		case paint.Event:
			frames.submit(c.snapshot())
		case mouse.Event:
			c.handleMouse(e)
		case key.Event:
			c.handleKey(e)
		}
		if c.quit {
			frames.interrupt()
			return
		}
	}
}

// paintLoop renders frames on its own goroutine. A newer frame replaces one
// still queued, and cancels the one being drawn unless too many have been
// dropped in a row.
type paintLoop struct {
	ch   chan paintState
	done chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	drops  int
}

func startPaintLoop(draw func(context.Context, paintState)) *paintLoop {
	l := &paintLoop{ch: make(chan paintState, 1), done: make(chan struct{})}
	go func() {
		defer close(l.done)
		for st := range l.ch {
			ctx, cancel := context.WithCancel(context.Background())
			l.mu.Lock()
			l.cancel = cancel
			l.mu.Unlock()
			draw(ctx, st)
			l.mu.Lock()
			l.cancel = nil
			if ctx.Err() == nil {
				l.drops = 0
			}
			l.mu.Unlock()
			cancel()
		}
	}()
	return l
}

// submit queues st. It must not be called after close.
func (l *paintLoop) submit(st paintState) {
	l.mu.Lock()
	if l.cancel != nil && l.drops < frameDropThreshold {
		l.cancel()
		l.drops++
	}
	l.mu.Unlock()
	select {
	case l.ch <- st:
	default:
		select {
		case <-l.ch:
		default:
		}
		l.ch <- st
	}
}

// interrupt cancels the frame being drawn, if any.
func (l *paintLoop) interrupt() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
}

// close stops the loop and waits for the frame in flight to finish.
func (l *paintLoop) close() {
	close(l.ch)
	<-l.done
}

// controller is the event loop state of one window. It is only touched from
// the loop goroutine.
type controller struct {
	a        *AppState
	sess     *Session
	sched    Scheduler
	dispatch Dispatcher
	repaint  func()

	width, height int
	actions       map[string]func()
	keys          map[KeyShortcut]string
	buttons       []Button

	hoverTool     int
	pressedTool   int
	hoverShortcut int
	message       string
	messageUntil  time.Time
	alertOpen     bool
	quit          bool
}

func (a *AppState) newController(sched Scheduler, dispatch Dispatcher, repaint func()) *controller {
	c := &controller{
		a:             a,
		sched:         sched,
		dispatch:      dispatch,
		repaint:       repaint,
		hoverTool:     -1,
		pressedTool:   -1,
		hoverShortcut: -1,
		actions:       map[string]func(){},
		keys:          map[KeyShortcut]string{},
	}
	opts := []SessionOption{
		WithPolicy(a.Policy),
		WithFactory(circles.NewFactory(a.Seed)),
		WithRenderer(render.New()),
		WithAlert(c.capacity),
		WithOutcome(func(o Outcome) { a.Outcomes.Report(o.Message(), o.Err) }),
		WithChange(repaint),
	}
	if a.Delay > 0 {
		opts = append(opts, WithDelay(a.Delay))
	}
	c.sess = NewSession(sched, opts...)
	if a.Image != nil {
		c.sess.LoadImage(a.Image)
	}
	c.registerActions()
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keys[sc] = name
		}
	}
}

func (c *controller) registerActions() {
	c.register("open", shortcutList{{Rune: 'o'}}, c.open)
	c.register("add", shortcutList{{Rune: 'n'}}, func() {
		if _, err := c.sess.AddCircle(); err != nil {
			log.Printf("draw circle: %v", err)
		}
	})
	c.register("clear", shortcutList{
		{Code: key.CodeDeleteForward},
		{Code: key.CodeDeleteBackspace},
	}, func() {
		if _, err := c.sess.ClearSelected(); err != nil {
			log.Printf("clear: %v", err)
			return
		}
		c.repaint()
	})
	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, c.save)
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, c.copy)
	c.register("quit", shortcutList{{Rune: 'q'}}, func() { c.quit = true })

	for i, tb := range toolbarButtons {
		name := tb.action
		ab := &ActionButton{label: tb.label, action: name, theme: c.a.Theme}
		ab.SetRect(toolbarRect(i))
		ab.onActivate = func() { c.trigger(name) }
		c.buttons = append(c.buttons, ab)
	}
}

// trigger runs the named action and repaints.
func (c *controller) trigger(action string) {
	if fn, ok := c.actions[action]; ok {
		fn()
	}
	c.repaint()
}

func (c *controller) setMessage(msg string) {
	c.message = msg
	c.messageUntil = time.Now().Add(messageDuration)
	log.Print(msg)
	c.repaint()
	// repaint once more so the message disappears
	c.sched.AfterFunc(messageDuration, c.repaint)
}

func (c *controller) capacity(err error) {
	msg := fmt.Sprintf("Maximum of %d circles reached", circles.MaxCircles)
	if !errors.Is(err, circles.ErrCapacity) {
		msg = err.Error()
	}
	c.setMessage(msg)
	go c.a.Notifier.Capacity(msg)
	if !c.a.ModalAlerts || c.alertOpen {
		return
	}
	c.alertOpen = true
	title := c.a.Title
	go func() {
		if err := showAlert(title, msg); err != nil {
			log.Printf("capacity: %v", err)
		}
		c.dispatch(func() { c.alertOpen = false })
	}()
}

func (c *controller) open() {
	go func() {
		path, err := selectImageFile("Open image")
		if err != nil {
			if !errors.Is(err, platform.ErrCanceled) {
				c.dispatch(func() { c.setMessage(fmt.Sprintf("open failed: %v", err)) })
			}
			return
		}
		if path == "" {
			return
		}
		loadAsync(path, c.dispatch, func(img *image.RGBA, err error) {
			if err != nil {
				c.setMessage(fmt.Sprintf("load failed: %v", err))
				return
			}
			c.sess.LoadImage(img)
			c.setMessage(fmt.Sprintf("loaded %dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
		})
	}()
}

func (c *controller) save() {
	out := c.a.Output
	if err := writeImage(out, c.sess.Composite()); err != nil {
		log.Printf("save: %v", err)
		c.setMessage("save failed")
		return
	}
	c.setMessage(fmt.Sprintf("saved %s", out))
	go c.a.Notifier.Save(out)
}

func (c *controller) copy() {
	img := c.sess.Composite()
	if err := copyImage(img); err != nil {
		log.Printf("copy: %v", err)
		c.setMessage("copy failed")
		return
	}
	c.setMessage("image copied to clipboard")
	go c.a.Notifier.Copy("canvas", img)
}

// view is where the canvas is currently drawn in the window.
func (c *controller) view() image.Rectangle {
	return fitRect(c.sess.Size(), canvasArea(c.width, c.height))
}

func (c *controller) handleMouse(e mouse.Event) {
	// A press dismisses the status message and is then handled as usual.
	if c.message != "" && time.Now().Before(c.messageUntil) && e.Direction == mouse.DirPress {
		c.messageUntil = time.Time{}
		c.repaint()
	}
	pt := image.Pt(int(e.X), int(e.Y))
	view := c.view()

	if e.Direction == mouse.DirRelease {
		c.pressedTool = -1
		if c.sess.Dragging() {
			c.sess.Release()
		}
		c.repaint()
		return
	}

	if c.sess.Dragging() {
		if !pt.In(view) {
			c.sess.Leave()
			c.repaint()
			return
		}
		if e.Direction == mouse.DirNone {
			c.sess.Move(ToCanvas(float64(e.X), float64(e.Y), view, c.sess.Size()))
			return
		}
	}

	switch {
	case pt.Y >= c.height-bottomHeight:
		c.hoverShortcut = -1
		for i, sc := range layoutShortcuts(c.height, c.a.Theme) {
			if pt.In(sc.rect) {
				c.hoverShortcut = i
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					c.trigger(sc.action)
				}
				break
			}
		}
		if e.Direction == mouse.DirNone {
			c.repaint()
		}
	case pt.Y < titleHeight:
		// title bar has no controls
	case pt.X < toolbarWidth:
		idx := (pt.Y - titleHeight) / buttonHeight
		if idx < 0 || idx >= len(c.buttons) {
			if c.hoverTool != -1 {
				c.hoverTool = -1
				c.repaint()
			}
			return
		}
		c.hoverTool = idx
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
			c.pressedTool = idx
			c.buttons[idx].Activate()
			return
		}
		if e.Direction == mouse.DirNone {
			c.repaint()
		}
	default:
		if c.hoverTool != -1 || c.hoverShortcut != -1 {
			c.hoverTool = -1
			c.hoverShortcut = -1
			c.repaint()
		}
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && pt.In(view) {
			if c.sess.Press(ToCanvas(float64(e.X), float64(e.Y), view, c.sess.Size())) {
				c.repaint()
			}
		}
	}
}

// shortcutFor normalises a key event into a map key.
func shortcutFor(e key.Event) KeyShortcut {
	r := unicode.ToLower(e.Rune)
	if !unicode.IsPrint(r) {
		r = 0
	}
	code := e.Code
	if r != 0 {
		// printable keys match on the rune alone
		code = key.CodeUnknown
	}
	return KeyShortcut{Rune: r, Code: code, Modifiers: e.Modifiers}
}

func (c *controller) handleKey(e key.Event) {
	if e.Direction != key.DirPress {
		return
	}
	if action, ok := c.keys[shortcutFor(e)]; ok {
		c.trigger(action)
	}
}

func (c *controller) snapshot() paintState {
	sel := c.sess.Selected()
	return paintState{
		width:         c.width,
		height:        c.height,
		title:         windowTitle(c.a.Title, c.a.SessionID, len(c.sess.Circles())),
		canvasSize:    c.sess.Size(),
		background:    c.sess.Background(),
		overlay:       cloneRGBA(c.sess.Overlay()),
		circles:       c.sess.Circles(),
		selected:      sel,
		hoverTool:     c.hoverTool,
		pressedTool:   c.pressedTool,
		hoverShortcut: c.hoverShortcut,
		message:       c.message,
		messageUntil:  c.messageUntil,
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
