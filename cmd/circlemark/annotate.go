package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"time"

	"github.com/example/circlemark/internal/appstate"
	"github.com/example/circlemark/internal/capture"
	"github.com/example/circlemark/internal/loader"
)

// Image sources and the window runner. Tests swap them.
var (
	loadFileFn      = loader.Load
	loadClipboardFn = loader.FromClipboard
	captureScreenFn = loader.FromCapture
	runWindowFn     = func(st *appstate.AppState) { st.Run() }
)

// annotateCmd opens the circle window.
type annotateCmd struct {
	*root
	fs *flag.FlagSet

	file          string
	fromClipboard bool
	capture       bool
	interactive   bool
	output        string
	policy        string
	seed          int64
	delay         time.Duration
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func (a *annotateCmd) Program() string {
	return a.root.Program() + " annotate"
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to open")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "open the image on the clipboard")
	fs.BoolVar(&a.capture, "capture", false, "open a screenshot of the desktop")
	fs.BoolVar(&a.interactive, "interactive", false, "let the desktop portal ask what to capture")
	fs.StringVar(&a.output, "output", "", "save path for Ctrl+S (default from config)")
	fs.StringVar(&a.policy, "policy", "", "removal policy: coexist or supersede (default from config)")
	fs.Int64Var(&a.seed, "seed", 0, "random seed for circle placement (0 uses the clock)")
	fs.DurationVar(&a.delay, "delay", appstate.RemovalDelay, "how long a cleared circle stays visible")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: a}
	}
	sources := 0
	for _, set := range []bool{a.file != "", a.fromClipboard, a.capture} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("choose only one of -file, -from-clipboard and -capture")
	}
	if a.interactive && !a.capture {
		return nil, errors.New("-interactive requires -capture")
	}
	return a, nil
}

// loadImage reads the selected source. No source yields a nil image and the
// window starts on a blank canvas.
func (a *annotateCmd) loadImage() (*image.RGBA, string, error) {
	switch {
	case a.file != "":
		img, err := loadFileFn(a.file)
		if err != nil {
			return nil, "", err
		}
		return img, a.file, nil
	case a.fromClipboard:
		img, err := loadClipboardFn()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, "clipboard", nil
	case a.capture:
		img, err := captureScreenFn(capture.Options{Interactive: a.interactive})
		if err != nil {
			return nil, "", fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, "screenshot", nil
	}
	return nil, "", nil
}

func (a *annotateCmd) Run() error {
	policy, err := a.root.policy(a.policy)
	if err != nil {
		return err
	}
	img, source, err := a.loadImage()
	if err != nil {
		return err
	}
	output := a.output
	if output == "" {
		output = a.config.OutputPath()
	}

	st := appstate.New(
		appstate.WithImage(img),
		appstate.WithOutput(output),
		appstate.WithTheme(a.activeTheme),
		appstate.WithTitle(windowTitle(titleOptions{File: source, Output: output})),
		appstate.WithSessionID(a.sessionID),
		appstate.WithRemovalPolicy(policy),
		appstate.WithSeed(a.root.seed(a.seed)),
		appstate.WithRemovalDelay(a.delay),
		appstate.WithNotifier(a.notifier),
		appstate.WithOutcomeLog(a.outcomes),
		appstate.WithModalAlerts(a.modal),
	)
	runWindowFn(st)
	return nil
}
