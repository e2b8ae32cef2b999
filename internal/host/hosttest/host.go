// Package hosttest provides an in-memory host implementation for tests.
//
// The fake tracks every command invocation and settings write, simulates the
// zoom-reset command's mode-dependent behavior, and can be scripted to fail
// specific commands or setting writes to exercise rollback paths.
package hosttest

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/host"
	"github.com/dshills/limelight/internal/spotlight"
)

// Host is an in-memory host.Host.
type Host struct {
	mu sync.Mutex

	settings map[string]any
	state    map[string]any
	contexts map[string]bool
	bus      *event.Bus

	views    []*View
	activeID string

	// Chrome surface visibility driven by command invocations.
	SidebarVisible  bool
	PanelVisible    bool
	ActivityBar     bool
	StatusBar       bool
	FullScreen      bool
	CenteredLayout  bool
	ViewGroupJoined bool

	// CommandLog records every invoked command name in order.
	CommandLog []string

	// FailCommands maps command names to forced errors.
	FailCommands map[string]error

	// OnCommand, when set, runs after each successful command, outside
	// the host lock. Tests use it to interleave triggers mid-transition.
	OnCommand func(name string)

	// FailSettingWrites maps settings keys to forced Set errors.
	FailSettingWrites map[string]error

	// Messages recorded by severity.
	Infos    []string
	Warnings []string
	Errors   []string
}

// New creates a fake host with the default chrome visible and no views.
func New() *Host {
	return &Host{
		settings:          make(map[string]any),
		state:             make(map[string]any),
		contexts:          make(map[string]bool),
		bus:               event.NewBus(),
		SidebarVisible:    true,
		PanelVisible:      true,
		ActivityBar:       true,
		StatusBar:         true,
		FailCommands:      make(map[string]error),
		FailSettingWrites: make(map[string]error),
	}
}

// AddView registers a view and makes it active if it is the first.
func (h *Host) AddView(id string, lineCount int, caretLines ...int) *View {
	h.mu.Lock()
	defer h.mu.Unlock()

	v := &View{
		id:      id,
		lines:   lineCount,
		carets:  append([]int(nil), caretLines...),
		options: map[string]any{host.ViewOptionLineNumbers: "on"},
	}
	h.views = append(h.views, v)
	if h.activeID == "" {
		h.activeID = id
	}
	return v
}

// SetActive switches the active view. An empty id means no active view.
func (h *Host) SetActive(id string) {
	h.mu.Lock()
	h.activeID = id
	h.mu.Unlock()
}

// RemoveAllViews simulates every view closing.
func (h *Host) RemoveAllViews() {
	h.mu.Lock()
	h.views = nil
	h.activeID = ""
	h.mu.Unlock()
}

// SetSetting seeds a settings value without going through Set.
func (h *Host) SetSetting(key string, value any) {
	h.mu.Lock()
	h.settings[key] = value
	h.mu.Unlock()
}

// Setting returns the raw stored value and whether it is set.
func (h *Host) Setting(key string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.settings[key]
	return v, ok
}

// Context returns a context flag value.
func (h *Host) Context(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.contexts[key]
}

// host.Host implementation.

func (h *Host) Settings() host.Settings  { return (*fakeSettings)(h) }
func (h *Host) Commands() host.Commands  { return (*fakeCommands)(h) }
func (h *Host) State() host.KVStore      { return (*fakeState)(h) }
func (h *Host) Bus() *event.Bus          { return h.bus }
func (h *Host) Messages() host.Messenger { return (*fakeMessenger)(h) }

// ActiveView returns the active view, if any.
func (h *Host) ActiveView() (host.View, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, v := range h.views {
		if v.id == h.activeID {
			return v, true
		}
	}
	return nil, false
}

// VisibleViews returns all registered views.
func (h *Host) VisibleViews() []host.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]host.View, len(h.views))
	for i, v := range h.views {
		out[i] = v
	}
	return out
}

type fakeSettings Host

func (s *fakeSettings) Get(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.settings[key]; ok {
		return v
	}
	return def
}

func (s *fakeSettings) Set(_ context.Context, key string, value any, _ host.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailSettingWrites[key]; err != nil {
		return err
	}
	s.settings[key] = value
	return nil
}

type fakeCommands Host

func (c *fakeCommands) Invoke(_ context.Context, name string) error {
	c.mu.Lock()

	c.CommandLog = append(c.CommandLog, name)
	if err := c.FailCommands[name]; err != nil {
		c.mu.Unlock()
		return err
	}

	switch name {
	case host.CmdHideSidebar:
		c.SidebarVisible = false
	case host.CmdShowSidebar:
		c.SidebarVisible = true
	case host.CmdHidePanel:
		c.PanelVisible = false
	case host.CmdShowPanel:
		c.PanelVisible = true
	case host.CmdToggleActivityBar:
		c.ActivityBar = !c.ActivityBar
	case host.CmdToggleStatusBar:
		c.StatusBar = !c.StatusBar
	case host.CmdToggleFullScreen:
		c.FullScreen = !c.FullScreen
	case host.CmdToggleCenterLayout:
		c.CenteredLayout = !c.CenteredLayout
	case host.CmdJoinAllViewGroups:
		c.ViewGroupJoined = true
	case host.CmdResetZoom:
		// With per-view zoom on, reset clears view overrides and leaves
		// the global level alone. With it off, reset zeroes the global
		// level.
		if perView, _ := c.settings[host.SettingZoomPerView].(bool); !perView {
			c.settings[host.SettingZoomLevel] = 0.0
		}
	}

	cb := c.OnCommand
	c.mu.Unlock()
	if cb != nil {
		cb(name)
	}
	return nil
}

func (c *fakeCommands) SetContext(_ context.Context, key string, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contexts[key] = value
	return nil
}

type fakeState Host

func (s *fakeState) GetBool(key string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.state[key].(bool); ok {
		return v
	}
	return def
}

func (s *fakeState) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
	return nil
}

func (s *fakeState) GetFloat(key string, def float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.state[key].(float64); ok {
		return v
	}
	return def
}

func (s *fakeState) SetFloat(key string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
	return nil
}

func (s *fakeState) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, key)
	return nil
}

type fakeMessenger Host

func (m *fakeMessenger) Info(msg string) {
	m.mu.Lock()
	m.Infos = append(m.Infos, msg)
	m.mu.Unlock()
}

func (m *fakeMessenger) Warn(msg string) {
	m.mu.Lock()
	m.Warnings = append(m.Warnings, msg)
	m.mu.Unlock()
}

func (m *fakeMessenger) Error(msg string) {
	m.mu.Lock()
	m.Errors = append(m.Errors, msg)
	m.mu.Unlock()
}

// View is an in-memory host.View.
type View struct {
	mu      sync.Mutex
	id      string
	lines   int
	carets  []int
	options map[string]any

	// DimRanges is the last applied dim decoration.
	DimRanges []spotlight.Range

	// DimStyle is the style the decoration was painted with.
	DimStyle tcell.Style

	// DimCalls counts SetDimmedRanges invocations.
	DimCalls int
}

// ID returns the view identifier.
func (v *View) ID() string { return v.id }

// LineCount returns the view's line count.
func (v *View) LineCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lines
}

// CaretLines returns the raw caret lines.
func (v *View) CaretLines() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]int(nil), v.carets...)
}

// MoveCarets replaces the caret set.
func (v *View) MoveCarets(lines ...int) {
	v.mu.Lock()
	v.carets = append([]int(nil), lines...)
	v.mu.Unlock()
}

// Option returns a per-view option.
func (v *View) Option(name string, def any) any {
	v.mu.Lock()
	defer v.mu.Unlock()
	if val, ok := v.options[name]; ok {
		return val
	}
	return def
}

// SetOption writes a per-view option.
func (v *View) SetOption(name string, value any) error {
	v.mu.Lock()
	v.options[name] = value
	v.mu.Unlock()
	return nil
}

// SetDimmedRanges records the applied decoration.
func (v *View) SetDimmedRanges(ranges []spotlight.Range, style tcell.Style) {
	v.mu.Lock()
	v.DimRanges = append([]spotlight.Range(nil), ranges...)
	v.DimStyle = style
	v.DimCalls++
	v.mu.Unlock()
}
