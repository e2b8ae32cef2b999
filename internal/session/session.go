package session

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/limelight/internal/chrome"
	"github.com/dshills/limelight/internal/config"
	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/host"
	"github.com/dshills/limelight/internal/logging"
	"github.com/dshills/limelight/internal/spotlight"
)

// Phase is the session lifecycle state.
type Phase int

const (
	// PhaseInactive is the initial and terminal state.
	PhaseInactive Phase = iota

	// PhaseEntering means the enter sequence is in flight.
	PhaseEntering

	// PhaseActive means focus mode is on.
	PhaseActive

	// PhaseExiting means the exit sequence is in flight.
	PhaseExiting
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseEntering:
		return "entering"
	case PhaseActive:
		return "active"
	case PhaseExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Hooks runs user callbacks around session transitions. Implementations
// must tolerate being called on every enter and exit; errors are theirs to
// report.
type Hooks interface {
	OnEnter(cfg config.FocusConfig)
	OnExit()
}

// DefaultDebounceWindow coalesces caret-movement bursts.
const DefaultDebounceWindow = 40 * time.Millisecond

// Controller is the focus mode session state machine.
type Controller struct {
	mu sync.Mutex

	h    host.Host
	log  *logging.Logger
	orch *chrome.Orchestrator

	marker  *spotlight.Marker
	palette spotlight.Palette

	cfg   config.FocusConfig
	phase Phase

	subs     *event.Group
	debounce *event.Debouncer

	hooks Hooks
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDebounceWindow sets the selection-event debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = event.NewDebouncer(d)
	}
}

// WithHooks installs user transition hooks.
func WithHooks(h Hooks) Option {
	return func(c *Controller) {
		c.hooks = h
	}
}

// WithPalette sets the theme colors the dim style is derived from.
func WithPalette(p spotlight.Palette) Option {
	return func(c *Controller) {
		c.palette = p
	}
}

// New creates a controller over the host. The caller owns the single
// instance for the process lifetime.
func New(h host.Host, opts ...Option) *Controller {
	c := &Controller{
		h:        h,
		log:      logging.Default(),
		palette:  spotlight.DefaultPalette(),
		debounce: event.NewDebouncer(DefaultDebounceWindow),
		subs:     event.NewGroup(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("session")
	c.orch = chrome.New(h, c.log)
	c.cfg = config.Default()
	c.marker = spotlight.NewMarker(c.cfg.Opacity, c.palette)
	return c
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Active reports whether focus mode is on.
func (c *Controller) Active() bool {
	return c.Phase() == PhaseActive
}

// Config returns the configuration of the current or last session.
func (c *Controller) Config() config.FocusConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Toggle enters when inactive, exits when active. A toggle observed while a
// transition is in flight is a silent no-op; it is dropped, not queued.
func (c *Controller) Toggle(ctx context.Context) error {
	switch c.Phase() {
	case PhaseInactive:
		return c.Enter(ctx)
	case PhaseActive:
		return c.Exit(ctx)
	default:
		return nil
	}
}

// Enter starts a focus session. Failures unwind completely: the phase
// returns to Inactive, the gating flag ends false, and no partial session
// is left registered.
func (c *Controller) Enter(ctx context.Context) error {
	c.mu.Lock()

	if c.phase != PhaseInactive {
		c.mu.Unlock()
		return nil
	}

	view, ok := c.h.ActiveView()
	if !ok {
		c.mu.Unlock()
		c.h.Messages().Warn("focus mode needs an open document")
		return nil
	}

	c.phase = PhaseEntering
	c.orch.Reset()
	c.mu.Unlock()

	if err := c.enterSequence(ctx, view); err != nil {
		c.abortEnter(ctx)
		c.h.Messages().Error("focus mode failed: " + err.Error())
		return err
	}

	c.mu.Lock()
	c.phase = PhaseActive
	cfg := c.cfg
	c.mu.Unlock()

	if c.hooks != nil {
		c.hooks.OnEnter(cfg)
	}
	c.log.Info("session entered")
	return nil
}

// enterSequence runs the ordered enter steps. The caller holds no locks.
func (c *Controller) enterSequence(ctx context.Context, view host.View) error {
	// (1) refresh configuration
	cfg := config.Read(c.h.Settings())
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	// (2) rebuild the dim style at the configured opacity
	c.marker.Recreate(cfg.Opacity)

	// (3) collapse view groups before touching any chrome
	if cfg.SingleViewOnly {
		if err := c.orch.EnforceSingleViewGroup(ctx); err != nil {
			return err
		}
	}

	// (4) hide chrome; rolls itself back on failure
	if err := c.orch.HideChrome(ctx, cfg); err != nil {
		return err
	}

	// (5) line numbers on the active view
	if err := c.orch.ApplyLineNumberPolicy(view, cfg.LineNumbers); err != nil {
		return err
	}

	// (6) initial spotlight
	c.applySpotlight(view)

	// (7) gating flag for the exit keybinding
	if err := c.h.Commands().SetContext(ctx, host.ContextActive, true); err != nil {
		return err
	}

	// (8) crash marker
	if err := c.h.State().SetBool(host.KeyCrashMarker, true); err != nil {
		return err
	}

	// (9) event subscriptions
	c.registerSubscriptions()
	return nil
}

// abortEnter unwinds a failed enter. Secondary errors are swallowed; the
// only guarantee is Inactive with the gating flag false.
func (c *Controller) abortEnter(ctx context.Context) {
	c.debounce.Cancel()
	c.subs.Dispose()

	for _, view := range c.h.VisibleViews() {
		c.marker.Clear(view)
		if err := c.orch.RestoreLineNumberPolicy(view); err != nil {
			c.log.Warn("abort: line numbers on %s: %v", view.ID(), err)
		}
	}
	c.marker.Reset()
	if err := c.orch.RestoreChrome(ctx); err != nil {
		c.log.Warn("abort: %v", err)
	}
	if err := c.h.Commands().SetContext(ctx, host.ContextActive, false); err != nil {
		c.log.Warn("abort: gating flag: %v", err)
	}
	if err := c.h.State().Delete(host.KeyCrashMarker); err != nil {
		c.log.Warn("abort: crash marker: %v", err)
	}

	c.mu.Lock()
	c.phase = PhaseInactive
	c.mu.Unlock()
}

// Exit ends the session. Exit never refuses to complete: individual step
// failures are reported and skipped, and the phase always lands on
// Inactive.
func (c *Controller) Exit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseExiting
	c.mu.Unlock()

	var firstErr error
	report := func(step string, err error) {
		if err == nil {
			return
		}
		c.log.Warn("exit: %s: %v", step, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	// (1) drop any pending debounced update
	c.debounce.Cancel()

	// (2) unregister event subscriptions
	c.subs.Dispose()

	// (3) clear markers and line numbers on every visible view
	for _, view := range c.h.VisibleViews() {
		c.marker.Clear(view)
		report("lineNumbers", c.orch.RestoreLineNumberPolicy(view))
	}
	c.marker.Reset()

	// (4) restore chrome
	report("chrome", c.orch.RestoreChrome(ctx))

	// (5) gating flag off
	report("context", c.h.Commands().SetContext(ctx, host.ContextActive, false))

	// (6) crash marker cleared
	report("crashMarker", c.h.State().Delete(host.KeyCrashMarker))

	c.mu.Lock()
	c.phase = PhaseInactive
	c.mu.Unlock()

	if c.hooks != nil {
		c.hooks.OnExit()
	}

	if firstErr != nil {
		c.h.Messages().Error("focus mode exit had errors: " + firstErr.Error())
	}
	c.log.Info("session exited")
	return firstErr
}

// applySpotlight recomputes and applies dim ranges for one view.
func (c *Controller) applySpotlight(view host.View) {
	if view == nil {
		return
	}
	cursors := spotlight.NormalizeCarets(view.CaretLines())
	ranges := spotlight.ComputeDimmedRanges(cursors, view.LineCount())
	c.marker.Apply(view, ranges)
}

// RecoverFromCrash runs once at process startup, before any trigger is
// handled. A set crash marker means the prior session never exited cleanly;
// ambient state is forced back to a sane baseline, errors swallowed.
func (c *Controller) RecoverFromCrash(ctx context.Context) {
	if !c.h.State().GetBool(host.KeyCrashMarker, false) {
		return
	}

	c.log.Warn("unclean shutdown detected, restoring chrome baseline")
	c.orch.RecoverBaseline(ctx)

	if err := c.h.State().Delete(host.KeyCrashMarker); err != nil {
		c.log.Warn("recovery: crash marker: %v", err)
	}
	if err := c.h.Commands().SetContext(ctx, host.ContextActive, false); err != nil {
		c.log.Warn("recovery: gating flag: %v", err)
	}
}
