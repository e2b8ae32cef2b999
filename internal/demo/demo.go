// Package demo is a self-contained terminal host for trying limelight
// without an editor. It renders a generated document with the usual
// window chrome (sidebar, status bar, gutter) and lets a focus session
// hide and restore all of it.
package demo

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/host"
	"github.com/dshills/limelight/internal/logging"
	"github.com/dshills/limelight/internal/persist"
	"github.com/dshills/limelight/internal/session"
	"github.com/dshills/limelight/internal/settings"
)

// Ensure App implements the host surface.
var _ host.Host = (*App)(nil)

const sidebarWidth = 22

// App is the demo application. It implements host.Host over a tcell
// screen with one document view.
type App struct {
	screen   tcell.Screen
	store    *settings.Store
	state    *persist.Store
	bus      *event.Bus
	log      *logging.Logger
	ctl      *session.Controller
	view     *docView
	messages *statusMessenger

	mu sync.Mutex

	// Window chrome. The session's hide commands land here.
	sidebar     bool
	panel       bool
	activityBar bool
	statusBar   bool
	fullScreen  bool
	centered    bool

	contexts map[string]bool
	top      int
}

// Options configures the demo app.
type Options struct {
	// Lines is the generated document length.
	Lines int

	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
}

// New creates the demo app over an initialized tcell screen.
func New(screen tcell.Screen, store *settings.Store, state *persist.Store, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	lines := opts.Lines
	if lines <= 0 {
		lines = 120
	}

	a := &App{
		screen:      screen,
		store:       store,
		state:       state,
		bus:         event.NewBus(),
		log:         log.WithComponent("demo"),
		view:        newDocView("demo", GenerateDocument(lines)),
		sidebar:     true,
		panel:       true,
		activityBar: true,
		statusBar:   true,
		contexts:    make(map[string]bool),
	}
	a.messages = &statusMessenger{}
	return a
}

// SetController attaches the session controller driving focus mode.
func (a *App) SetController(ctl *session.Controller) {
	a.ctl = ctl
}

// Settings returns the settings store.
func (a *App) Settings() host.Settings { return a.store }

// Commands returns the command surface.
func (a *App) Commands() host.Commands { return (*appCommands)(a) }

// State returns the persistent store.
func (a *App) State() host.KVStore { return a.state }

// Bus returns the event bus.
func (a *App) Bus() *event.Bus { return a.bus }

// Messages returns the status-line messenger.
func (a *App) Messages() host.Messenger { return a.messages }

// ActiveView returns the single demo view.
func (a *App) ActiveView() (host.View, bool) { return a.view, true }

// VisibleViews returns the single demo view.
func (a *App) VisibleViews() []host.View { return []host.View{a.view} }

// Run drives the event loop until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.ctl == nil {
		return fmt.Errorf("demo: no session controller attached")
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	a.draw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch tev := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
				a.draw()

			case *tcell.EventKey:
				if a.handleKey(ctx, tev) {
					return nil
				}
				a.draw()
			}
		}
	}
}

// handleKey processes one key event. Returns true to quit.
func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true

	case tcell.KeyEscape:
		// While focused, escape exits the session. The gating flag
		// stands in for the host keybinding layer's context check.
		if a.Context(host.ContextActive) {
			if err := a.ctl.Exit(ctx); err != nil {
				a.log.Warn("exit: %v", err)
			}
			return false
		}
		return true

	case tcell.KeyUp:
		a.moveCaret(-1)
	case tcell.KeyDown:
		a.moveCaret(1)
	case tcell.KeyPgUp:
		a.moveCaret(-10)
	case tcell.KeyPgDn:
		a.moveCaret(10)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			a.moveCaret(-1)
		case 'j':
			a.moveCaret(1)
		case 'f':
			if err := a.ctl.Toggle(ctx); err != nil {
				a.log.Warn("toggle: %v", err)
			}
		}
	}
	return false
}

// moveCaret shifts the caret and publishes the selection change, the
// same signal a real editor emits on cursor movement.
func (a *App) moveCaret(delta int) {
	if !a.view.moveCaret(delta) {
		return
	}
	a.bus.Publish(event.TopicSelectionChanged, event.SelectionChanged{
		ViewID:     a.view.ID(),
		CaretLines: a.view.CaretLines(),
	})
}

// Context returns a named context flag.
func (a *App) Context(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.contexts[key]
}

func (a *App) chromeState() (sidebar, panel, activityBar, statusBar bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sidebar, a.panel, a.activityBar, a.statusBar
}

func (a *App) centeredLayout() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.centered
}

// appCommands adapts App to host.Commands.
type appCommands App

func (c *appCommands) Invoke(_ context.Context, name string) error {
	a := (*App)(c)
	a.mu.Lock()
	defer a.mu.Unlock()

	switch name {
	case host.CmdHideSidebar:
		a.sidebar = false
	case host.CmdShowSidebar:
		a.sidebar = true
	case host.CmdHidePanel:
		a.panel = false
	case host.CmdShowPanel:
		a.panel = true
	case host.CmdToggleActivityBar:
		a.activityBar = !a.activityBar
	case host.CmdToggleStatusBar:
		a.statusBar = !a.statusBar
	case host.CmdToggleFullScreen:
		a.fullScreen = !a.fullScreen
	case host.CmdToggleCenterLayout:
		a.centered = !a.centered
	case host.CmdJoinAllViewGroups:
		// Single view group already.
	case host.CmdResetZoom:
		// Global reset zeroes the shared level unless per-view zoom
		// shadows it.
		if perView, _ := a.store.Get(host.SettingZoomPerView, false).(bool); !perView {
			if err := a.store.Set(context.Background(), host.SettingZoomLevel, 0.0, host.ScopeGlobal); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func (c *appCommands) SetContext(_ context.Context, key string, value bool) error {
	a := (*App)(c)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.contexts[key] = value
	return nil
}

// statusMessenger shows notices on the status line.
type statusMessenger struct {
	mu   sync.Mutex
	text string
}

func (m *statusMessenger) Info(msg string)  { m.set(msg) }
func (m *statusMessenger) Warn(msg string)  { m.set("warning: " + msg) }
func (m *statusMessenger) Error(msg string) { m.set("error: " + msg) }

func (m *statusMessenger) set(msg string) {
	m.mu.Lock()
	m.text = msg
	m.mu.Unlock()
}

func (m *statusMessenger) current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// draw repaints the whole screen from current state.
func (a *App) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	sidebar, _, activityBar, statusBar := a.chromeState()

	left := 0
	if activityBar {
		a.drawActivityBar(height)
		left = 2
	}
	if sidebar {
		a.drawSidebar(left, width, height)
		left += sidebarWidth
	}

	docHeight := height
	if statusBar {
		docHeight--
	}

	a.drawDocument(left, width, docHeight)

	if statusBar {
		a.drawStatusBar(width, height-1)
	}

	a.screen.Show()
}

func (a *App) drawActivityBar(height int) {
	style := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	for y := 0; y < height; y++ {
		a.screen.SetContent(0, y, ' ', nil, style)
		a.screen.SetContent(1, y, ' ', nil, style)
	}
	for i, r := range "*#?" {
		a.screen.SetContent(0, i*2, r, nil, style.Foreground(tcell.ColorWhite))
	}
}

func (a *App) drawSidebar(left, width, height int) {
	if left+sidebarWidth > width {
		return
	}
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGray)
	entries := []string{"EXPLORER", "", "demo.txt", "notes.txt", "draft.md"}
	for y := 0; y < height; y++ {
		for x := left; x < left+sidebarWidth; x++ {
			a.screen.SetContent(x, y, ' ', nil, style)
		}
		if y < len(entries) {
			drawString(a.screen, left+1, y, wrapWidth(entries[y], sidebarWidth-2), style)
		}
	}
}

func (a *App) drawDocument(left, width, height int) {
	// Centered layout narrows the text column.
	if a.centeredLayout() {
		margin := (width - left) / 5
		left += margin
		width -= margin
	}

	caret := a.view.caretLine()
	total := a.view.LineCount()

	// Keep the caret visible.
	a.mu.Lock()
	if caret < a.top {
		a.top = caret
	}
	if caret >= a.top+height {
		a.top = caret - height + 1
	}
	top := a.top
	a.mu.Unlock()

	numbers, _ := a.view.Option(host.ViewOptionLineNumbers, "on").(string)
	gutter := 0
	if numbers != "off" {
		gutter = len(strconv.Itoa(total)) + 1
	}

	for y := 0; y < height; y++ {
		line := top + y
		if line >= total {
			break
		}

		style := tcell.StyleDefault
		if dimStyle, dim := a.view.dimmed(line); dim {
			style = dimStyle
		}
		if line == caret {
			style = style.Bold(true)
		}

		if gutter > 0 {
			num := line + 1
			if numbers == "relative" && line != caret {
				num = line - caret
				if num < 0 {
					num = -num
				}
			}
			label := fmt.Sprintf("%*d", gutter-1, num)
			drawString(a.screen, left, y, label, style.Foreground(tcell.ColorGray))
		}

		text := wrapWidth(a.view.line(line), width-left-gutter-1)
		drawString(a.screen, left+gutter+1, y, text, style)
	}
}

func (a *App) drawStatusBar(width, y int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}

	mode := "normal"
	if a.ctl != nil && a.ctl.Active() {
		mode = "focus"
	}
	left := fmt.Sprintf(" %s | line %d/%d", mode, a.view.caretLine()+1, a.view.LineCount())
	drawString(a.screen, 0, y, left, style)

	if msg := a.messages.current(); msg != "" {
		drawString(a.screen, len(left)+3, y, wrapWidth(msg, width-len(left)-4), style)
	}

	help := "f:focus  j/k:move  q:quit "
	if len(help) < width {
		drawString(a.screen, width-len(help), y, help, style)
	}
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
