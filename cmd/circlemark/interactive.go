package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/circlemark/internal/appstate"
	"github.com/example/circlemark/internal/circles"
	"github.com/example/circlemark/internal/export"
	"github.com/example/circlemark/internal/notify"
)

// newScheduler builds the scheduler of a headless session. Tests swap it.
var newScheduler = func(dispatch appstate.Dispatcher) appstate.Scheduler {
	return appstate.NewTimerScheduler(dispatch)
}

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd drives a session without a window, one command per line.
type interactiveCmd struct {
	*root
	fs *flag.FlagSet

	execs  commandList
	policy string
	seed   int64
	delay  time.Duration

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func (i *interactiveCmd) Program() string {
	return i.root.Program() + " interactive"
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute interactive command in immediate mode (may be specified multiple times)")
	fs.StringVar(&i.policy, "policy", "", "removal policy: coexist or supersede (default from config)")
	fs.Int64Var(&i.seed, "seed", 0, "random seed for circle placement (0 uses the clock)")
	fs.DurationVar(&i.delay, "delay", appstate.RemovalDelay, "how long a cleared circle stays before removal")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	policy, err := i.root.policy(i.policy)
	if err != nil {
		return err
	}
	outcomes := i.outcomes
	if i.stderr != os.Stderr || outcomes == nil {
		outcomes = notify.NewOutcomeLog(i.stderr).Plain()
	}
	h := newHeadless(i.root, policy, i.root.seed(i.seed), i.delay, i.stdout, outcomes)
	defer h.stop()

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := h.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := h.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// headless runs a Session on its own loop goroutine. Commands and timer
// callbacks are both funnelled through events, so the session is only ever
// touched by that goroutine.
type headless struct {
	r      *root
	sess   *appstate.Session
	sched  appstate.Scheduler
	events chan func()
	quit   chan struct{}
	once   sync.Once
	stdout io.Writer
	output string
}

func newHeadless(r *root, policy appstate.RemovalPolicy, seed int64, delay time.Duration, stdout io.Writer, outcomes *notify.OutcomeLog) *headless {
	h := &headless{
		r:      r,
		events: make(chan func()),
		quit:   make(chan struct{}),
		stdout: stdout,
		output: "annotated.png",
	}
	if r != nil && r.config != nil {
		h.output = r.config.OutputPath()
	}
	h.sched = newScheduler(h.dispatch)
	opts := []appstate.SessionOption{
		appstate.WithPolicy(policy),
		appstate.WithFactory(circles.NewFactory(seed)),
		appstate.WithOutcome(func(o appstate.Outcome) { outcomes.Report(o.Message(), o.Err) }),
		appstate.WithAlert(func(err error) {
			if r != nil {
				go r.notifier.Capacity(err.Error())
			}
		}),
	}
	if delay > 0 {
		opts = append(opts, appstate.WithDelay(delay))
	}
	go h.loop()
	h.do(func() { h.sess = appstate.NewSession(h.sched, opts...) })
	return h
}

func (h *headless) loop() {
	for {
		select {
		case fn := <-h.events:
			fn()
		case <-h.quit:
			return
		}
	}
}

// dispatch hands fn to the loop. It is dropped once the loop has stopped.
func (h *headless) dispatch(fn func()) {
	select {
	case h.events <- fn:
	case <-h.quit:
	}
}

// do runs fn on the loop and waits for it.
func (h *headless) do(fn func()) {
	done := make(chan struct{})
	h.dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-h.quit:
	}
}

func (h *headless) stop() {
	h.once.Do(func() { close(h.quit) })
}

// snapshot copies the circles from the loop.
func (h *headless) snapshot() []circles.Circle {
	var cs []circles.Circle
	h.do(func() { cs = h.sess.Circles() })
	return cs
}

// wait lets d pass. A manual scheduler is advanced on the loop; real timers
// fire on their own while this goroutine sleeps.
func (h *headless) wait(d time.Duration) {
	if ms, ok := h.sched.(*appstate.ManualScheduler); ok {
		h.do(func() { ms.Advance(d) })
		return
	}
	time.Sleep(d)
}

var errUnknownCommand = errors.New("unknown command")

// executeLine runs one command. done is true when the session should end.
func (h *headless) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	out := h.stdout
	switch cmd := strings.ToLower(args[0]); cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(out, "commands: load PATH, add, press X Y, move X Y, release, leave, clear, list, wait DURATION, save [PATH], exit")
	case "load":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: load PATH")
		}
		img, err := loadFileFn(args[1])
		if err != nil {
			return false, err
		}
		h.do(func() { h.sess.LoadImage(img) })
		fmt.Fprintf(out, "loaded %s (%dx%d)\n", args[1], img.Bounds().Dx(), img.Bounds().Dy())
	case "add":
		var c circles.Circle
		h.do(func() { c, err = h.sess.AddCircle() })
		if errors.Is(err, circles.ErrCapacity) {
			fmt.Fprintf(out, "alert: %v\n", err)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "added %s\n", c)
	case "press", "move":
		p, err := parsePoint(cmd, args[1:])
		if err != nil {
			return false, err
		}
		var ok bool
		var sel int
		var c circles.Circle
		h.do(func() {
			if cmd == "press" {
				ok = h.sess.Press(p)
			} else {
				ok = h.sess.Move(p)
			}
			sel = h.sess.Selected()
			for _, cc := range h.sess.Circles() {
				if cc.ID == sel {
					c = cc
				}
			}
		})
		switch {
		case cmd == "press" && ok:
			fmt.Fprintf(out, "selected %s\n", c)
		case cmd == "press":
			fmt.Fprintf(out, "no circle at (%g, %g)\n", p.X, p.Y)
		case ok:
			fmt.Fprintf(out, "moved %s\n", c)
		default:
			fmt.Fprintln(out, "not dragging")
		}
	case "release", "leave":
		var state appstate.PointerState
		h.do(func() {
			if cmd == "release" {
				h.sess.Release()
			} else {
				h.sess.Leave()
			}
			state = h.sess.State()
		})
		fmt.Fprintln(out, state)
	case "clear":
		var r *appstate.Removal
		h.do(func() { r, err = h.sess.ClearSelected() })
		if err != nil {
			// already reported through the outcome log
			return false, nil
		}
		fmt.Fprintf(out, "clearing circle %d\n", r.ID)
	case "list":
		var cs []circles.Circle
		var sel int
		var state appstate.PointerState
		var pending int
		h.do(func() {
			cs = h.sess.Circles()
			sel = h.sess.Selected()
			state = h.sess.State()
			pending = len(h.sess.Pending())
		})
		for _, c := range cs {
			mark := " "
			if c.ID == sel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, c)
		}
		fmt.Fprintf(out, "%d/%d circles, %s, %d pending\n", len(cs), circles.MaxCircles, state, pending)
	case "wait":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: wait DURATION")
		}
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return false, fmt.Errorf("wait: %w", err)
		}
		h.wait(d)
	case "save":
		path := h.output
		if len(args) > 1 {
			path = args[1]
		}
		var img *image.RGBA
		h.do(func() { img = h.sess.Composite() })
		if err := export.Write(path, img); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "saved %s\n", path)
		if h.r != nil {
			h.r.notifier.Save(path)
		}
	default:
		return false, fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}
	return false, nil
}

func parsePoint(cmd string, args []string) (circles.Point, error) {
	if len(args) != 2 {
		return circles.Point{}, fmt.Errorf("usage: %s X Y", cmd)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return circles.Point{}, fmt.Errorf("%s: bad x: %w", cmd, err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return circles.Point{}, fmt.Errorf("%s: bad y: %w", cmd, err)
	}
	return circles.Point{X: x, Y: y}, nil
}
