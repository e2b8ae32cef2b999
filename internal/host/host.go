package host

import (
	"context"

	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/spotlight"
)

// Scope identifies where a setting write lands.
type Scope int

const (
	// ScopeGlobal writes to the process-wide settings store.
	ScopeGlobal Scope = iota

	// ScopeView writes a per-view override.
	ScopeView
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeView:
		return "view"
	default:
		return "unknown"
	}
}

// Settings is the host's key-scoped settings store.
//
// Get is synchronous; Set awaits the host applying the write. Keys use dot
// notation ("ui.minimap.enabled").
type Settings interface {
	// Get returns the value for key, or def when the key is unset.
	Get(key string, def any) any

	// Set writes value for key in the given scope.
	Set(ctx context.Context, key string, value any, scope Scope) error
}

// Commands is the host's command-invocation surface. Command names are
// opaque to the host; the constants below are the ones limelight invokes.
type Commands interface {
	// Invoke runs the named command.
	Invoke(ctx context.Context, name string) error

	// SetContext sets a named context flag consumed by the host's
	// keybinding layer.
	SetContext(ctx context.Context, key string, value bool) error
}

// Command names limelight invokes on the host.
const (
	CmdHideSidebar        = "sidebar.close"
	CmdShowSidebar        = "sidebar.open"
	CmdHidePanel          = "panel.close"
	CmdShowPanel          = "panel.open"
	CmdToggleActivityBar  = "activitybar.toggle"
	CmdToggleStatusBar    = "statusbar.toggle"
	CmdToggleFullScreen   = "fullscreen.toggle"
	CmdToggleCenterLayout = "layout.center.toggle"
	CmdJoinAllViewGroups  = "viewgroups.join"
	CmdResetZoom          = "zoom.reset"
)

// ContextActive is the context flag gating the exit keybinding. The host's
// binding for it must be declared at lower priority than any overlay widget
// (completion list, find widget, rename input, snippet mode, parameter
// hints, code actions): the exit trigger fires only when none of those are
// visible.
const ContextActive = "limelight.active"

// Settings keys for ambient state the host exposes with read-back. These
// form the deterministic restoration tier.
const (
	SettingMinimapEnabled     = "ui.minimap.enabled"       // bool
	SettingTabVisibility      = "ui.tabBar.visibility"     // string: "multiple"|"single"|"none"
	SettingViewActionsVisible = "ui.viewActions.visible"   // bool
	SettingBreadcrumbsEnabled = "ui.breadcrumbs.enabled"   // bool
	SettingMenuBarVisibility  = "ui.menuBar.visibility"    // string: "visible"|"hidden"|"compact"
	SettingLayoutControl      = "ui.layoutControl.visible" // bool
	SettingZoomLevel          = "ui.zoom.level"            // float64
	SettingZoomPerView        = "ui.zoom.perView"          // bool: shadow mode
)

// ViewOptionLineNumbers is the per-view option holding the line-number
// style ("off", "on", "relative").
const ViewOptionLineNumbers = "lineNumbers"

// View is a visible content view (an open document pane).
type View interface {
	spotlight.Surface

	// ID returns a stable identifier for the view.
	ID() string

	// LineCount returns the total number of lines in the view's content.
	LineCount() int

	// CaretLines returns the 0-based line of every selection caret, in
	// caret order. May contain duplicates.
	CaretLines() []int

	// Option returns a per-view option value, or def when unset.
	Option(name string, def any) any

	// SetOption writes a per-view option.
	SetOption(name string, value any) error
}

// KVStore is a small persistent keyed store surviving process restarts.
type KVStore interface {
	GetBool(key string, def bool) bool
	SetBool(key string, value bool) error
	GetFloat(key string, def float64) float64
	SetFloat(key string, value float64) error
	Delete(key string) error
}

// Keys limelight persists in the KVStore.
const (
	// KeyCrashMarker is set while a session is active; finding it at
	// startup means the prior process died without a clean exit.
	KeyCrashMarker = "session.dirty"

	// KeyFocusZoom is the zoom level to apply on the next enter.
	KeyFocusZoom = "zoom.focus"
)

// Messenger shows user-visible notices (status line messages in a terminal
// host).
type Messenger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Host aggregates everything limelight consumes from the editor.
type Host interface {
	Settings() Settings
	Commands() Commands
	State() KVStore
	Bus() *event.Bus
	Messages() Messenger

	// ActiveView returns the focused content view, if any.
	ActiveView() (View, bool)

	// VisibleViews returns every currently visible content view.
	VisibleViews() []View
}
