// Package hook runs user Lua scripts on focus session transitions.
//
// Scripts live in a hooks directory and may define two global functions:
// on_enter(config) runs after a session becomes active, on_exit() after
// it ends. Each script gets its own interpreter, so one broken script
// cannot take the others down.
package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/limelight/internal/config"
	"github.com/dshills/limelight/internal/logging"
	"github.com/dshills/limelight/internal/session"
)

// Ensure Runner implements the session hook surface.
var _ session.Hooks = (*Runner)(nil)

const (
	// FnOnEnter is the global a script defines to observe session starts.
	FnOnEnter = "on_enter"

	// FnOnExit is the global a script defines to observe session ends.
	FnOnExit = "on_exit"

	// DefaultCallTimeout bounds a single hook invocation. Transitions
	// must stay snappy; a stuck script is cancelled, not waited for.
	DefaultCallTimeout = time.Second
)

// script is one loaded hook file with its private interpreter.
type script struct {
	name string
	L    *lua.LState
}

// Runner loads and invokes hook scripts. It satisfies the session
// controller's Hooks interface.
type Runner struct {
	log     *logging.Logger
	timeout time.Duration

	mu      sync.Mutex
	scripts []*script
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log.WithComponent("hook")
		}
	}
}

// WithCallTimeout overrides the per-invocation timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner loads every *.lua file in dir, in name order. A missing dir
// yields an empty runner. Scripts that fail to load are logged and
// skipped; only scripts that define at least one hook function are kept.
func NewRunner(dir string, opts ...Option) (*Runner, error) {
	r := &Runner{
		log:     logging.Discard(),
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hooks dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		s, err := loadScript(filepath.Join(dir, name))
		if err != nil {
			r.log.Warn("hook %s failed to load: %v", name, err)
			continue
		}
		if s == nil {
			continue
		}
		r.scripts = append(r.scripts, s)
	}

	r.log.Debug("loaded %d hook scripts from %s", len(r.scripts), dir)
	return r, nil
}

// loadScript runs one file in a fresh sandboxed state. Returns nil when
// the script defines no hook functions.
func loadScript(path string) (*script, error) {
	L := lua.NewState()
	sandbox(L)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, err
	}

	hasEnter := L.GetGlobal(FnOnEnter).Type() == lua.LTFunction
	hasExit := L.GetGlobal(FnOnExit).Type() == lua.LTFunction
	if !hasEnter && !hasExit {
		L.Close()
		return nil, nil
	}

	return &script{name: filepath.Base(path), L: L}, nil
}

// sandbox strips the globals that would let a hook load and execute
// arbitrary code from outside its own file.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Len returns the number of loaded scripts.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scripts)
}

// OnEnter invokes every script's on_enter with the session config.
func (r *Runner) OnEnter(cfg config.FocusConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.scripts {
		fn := s.L.GetGlobal(FnOnEnter)
		if fn.Type() != lua.LTFunction {
			continue
		}
		if err := r.call(s, fn, configTable(s.L, cfg)); err != nil {
			r.log.Warn("hook %s on_enter: %v", s.name, err)
		}
	}
}

// OnExit invokes every script's on_exit.
func (r *Runner) OnExit() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.scripts {
		fn := s.L.GetGlobal(FnOnExit)
		if fn.Type() != lua.LTFunction {
			continue
		}
		if err := r.call(s, fn); err != nil {
			r.log.Warn("hook %s on_exit: %v", s.name, err)
		}
	}
}

// call runs one hook function under the timeout, recovering panics from
// the interpreter.
func (r *Runner) call(s *script, fn lua.LValue, args ...lua.LValue) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook panicked: %v", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	return s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
}

// configTable builds the Lua view of the session config.
func configTable(L *lua.LState, cfg config.FocusConfig) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "opacity", lua.LNumber(cfg.Opacity))
	L.SetField(t, "line_numbers", lua.LString(cfg.LineNumbers.String()))
	L.SetField(t, "full_screen", lua.LBool(cfg.FullScreen))
	L.SetField(t, "center_layout", lua.LBool(cfg.CenterLayout))
	L.SetField(t, "hide_minimap", lua.LBool(cfg.HideMinimap))
	L.SetField(t, "single_view", lua.LBool(cfg.SingleViewOnly))
	return t
}

// Close shuts down every interpreter. The runner is unusable afterwards.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.scripts {
		s.L.Close()
	}
	r.scripts = nil
}
