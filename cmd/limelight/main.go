// Package main is the entry point for the limelight terminal demo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/limelight/internal/demo"
	"github.com/dshills/limelight/internal/hook"
	"github.com/dshills/limelight/internal/logging"
	"github.com/dshills/limelight/internal/persist"
	"github.com/dshills/limelight/internal/session"
	"github.com/dshills/limelight/internal/settings"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	ConfigPath string
	StatePath  string
	HooksDir   string
	LogPath    string
	LogLevel   string
	Lines      int
}

func run() int {
	opts := parseFlags()

	log, closeLog, err := openLogger(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	store, err := settings.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	state, err := persist.Open(opts.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	hooks, err := hook.NewRunner(opts.HooksDir, hook.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer hooks.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	app := demo.New(screen, store, state, demo.Options{
		Lines:  opts.Lines,
		Logger: log,
	})

	ctl := session.New(app,
		session.WithLogger(log),
		session.WithHooks(hooks),
	)
	app.SetController(ctl)

	// Reload settings changed on disk while running.
	watcher, err := settings.NewWatcher(store, app.Bus(), settings.WithWatcherLogger(log))
	if err != nil {
		log.Warn("settings live reload unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	// A crash marker means the last session never restored the chrome.
	ctl.RecoverFromCrash(ctx)

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Leaving the process while focused must restore the editor.
	if ctl.Active() {
		if err := ctl.Exit(context.Background()); err != nil {
			log.Warn("exit on shutdown: %v", err)
		}
	}

	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	base := defaultBaseDir()
	flag.StringVar(&opts.ConfigPath, "config", filepath.Join(base, "settings.toml"), "Path to settings file")
	flag.StringVar(&opts.ConfigPath, "c", filepath.Join(base, "settings.toml"), "Path to settings file (shorthand)")
	flag.StringVar(&opts.StatePath, "state", filepath.Join(base, "state.toml"), "Path to persistent state file")
	flag.StringVar(&opts.HooksDir, "hooks", filepath.Join(base, "hooks"), "Directory of Lua hook scripts")
	flag.StringVar(&opts.LogPath, "log", "", "Log file path (empty disables logging)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.IntVar(&opts.Lines, "lines", 120, "Generated document length")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Limelight - distraction-free focus mode demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: limelight [options]\n\n")
		fmt.Fprintf(os.Stderr, "Keys:\n")
		fmt.Fprintf(os.Stderr, "  f          toggle focus mode\n")
		fmt.Fprintf(os.Stderr, "  j/k/arrows move the caret\n")
		fmt.Fprintf(os.Stderr, "  escape     exit focus mode\n")
		fmt.Fprintf(os.Stderr, "  q          quit\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Limelight %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}

// defaultBaseDir is where settings, state, and hooks live by default.
func defaultBaseDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".limelight"
	}
	return filepath.Join(dir, "limelight")
}

// openLogger opens the log sink. Logging goes to a file because stdout
// belongs to the terminal UI.
func openLogger(opts options) (*logging.Logger, func(), error) {
	if opts.LogPath == "" {
		return logging.Discard(), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	log := logging.New(logging.ParseLevel(opts.LogLevel), f, "limelight")
	return log, func() { f.Close() }, nil
}
