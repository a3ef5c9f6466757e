package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/example/circlemark/internal/appstate"
	"github.com/example/circlemark/internal/config"
	"github.com/example/circlemark/internal/notify"
	"github.com/example/circlemark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	sessionID      string
	notifier       *notify.Notifier
	outcomes       *notify.OutcomeLog
	config         *config.Config
	saveAlerts     bool
	copyAlerts     bool
	capacityAlerts bool
	modal          bool
	themeName      string
	activeTheme    *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:        flag.NewFlagSet("circlemark", flag.ExitOnError),
		program:   "circlemark",
		sessionID: newSessionID(),
		notifier:  notify.New(prefs),
		outcomes:  notify.NewOutcomeLog(nil),
		config:    cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.capacityAlerts, "notify-capacity", cfg.Notify.Capacity, "show a desktop notification when the circle limit is reached")
	r.fs.BoolVar(&r.modal, "modal", cfg.Dialog.Modal, "show the circle limit notice as a modal dialog")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.BuiltinNames(), ", ")+", or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// newSessionID returns a short id that tags this run's log lines.
func newSessionID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventCapacity, r.capacityAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the theme named by -theme, CIRCLEMARK_THEME or the
// config, in that order, falling back to the default theme.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("CIRCLEMARK_THEME")
	}
	var custom map[string]*theme.Theme
	if r.config != nil {
		if name == "" {
			name = r.config.Theme
		}
		custom = r.config.Themes
	}
	t, err := theme.NewLoader(custom).Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// policy returns the removal policy named by flag, or the config's when flag
// is empty.
func (r *root) policy(flag string) (appstate.RemovalPolicy, error) {
	if flag == "" && r.config != nil {
		flag = r.config.RemovalPolicy
	}
	return appstate.ParseRemovalPolicy(flag)
}

// seed returns flag, or the config's seed when flag is zero.
func (r *root) seed(flag int64) int64 {
	if flag == 0 && r.config != nil {
		return r.config.Seed
	}
	return flag
}

func main() {
	r := newRoot()
	log.SetPrefix(fmt.Sprintf("circlemark[%s] ", r.sessionID))
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
