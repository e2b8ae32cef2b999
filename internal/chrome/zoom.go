package chrome

import (
	"context"

	"github.com/dshills/limelight/internal/host"
)

// The zoom protocol runs when the host's per-view zoom mode may be shadowing
// the global zoom setting. While that mode is on, interactive zoom writes
// land in a per-view override and the global value cannot be trusted. The
// reset-zoom command is mode-dependent: with shadow mode on it clears the
// per-view override and leaves the global level alone; with shadow mode off
// it zeroes the global level outright. Step order below is what keeps the
// command on its safe side.

// enterZoom isolates zoom for the focus session.
func (o *Orchestrator) enterZoom(ctx context.Context) error {
	settings := o.h.Settings()

	// Step 1: capture the global level and the shadow-mode flag.
	normal, _ := settings.Get(host.SettingZoomLevel, 0.0).(float64)
	perView, _ := settings.Get(host.SettingZoomPerView, false).(bool)
	o.snap.NormalZoom = &normal
	o.snap.ZoomPerView = &perView

	o.ledger.Zoom = true

	// Step 2: reset while shadow mode is still on. Safe here: only the
	// per-view override is cleared.
	if perView {
		if err := o.h.Commands().Invoke(ctx, host.CmdResetZoom); err != nil {
			return &StepError{Step: "zoom.reset", Err: err}
		}
	}

	// Step 3: turn shadow mode off so interactive zoom writes to the
	// global setting, keeping it legible for exit.
	if err := settings.Set(ctx, host.SettingZoomPerView, false, host.ScopeGlobal); err != nil {
		return &StepError{Step: "zoom.shadowOff", Err: err}
	}

	// Step 4: apply the persisted focus zoom. Must stay last: with shadow
	// mode now off, a reset-zoom would zero the global level instead of
	// clearing an override.
	focus := o.h.State().GetFloat(host.KeyFocusZoom, normal)
	if err := settings.Set(ctx, host.SettingZoomLevel, focus, host.ScopeGlobal); err != nil {
		return &StepError{Step: "zoom.applyFocus", Err: err}
	}
	return nil
}

// exitZoom restores the user's zoom and persists the session's zoom for
// next time. Best effort: each step failure is collected and the remaining
// steps still run, in order.
func (o *Orchestrator) exitZoom(ctx context.Context, rerr *RestoreError) {
	settings := o.h.Settings()

	// Step 1: the global level is accurate now (shadow mode was off all
	// session); persist it as the next focus zoom.
	current, _ := settings.Get(host.SettingZoomLevel, 0.0).(float64)
	if err := o.h.State().SetFloat(host.KeyFocusZoom, current); err != nil {
		rerr.add("zoom.persistFocus", err)
	}

	// Step 2: write back the captured normal level.
	if o.snap.NormalZoom != nil {
		if err := settings.Set(ctx, host.SettingZoomLevel, *o.snap.NormalZoom, host.ScopeGlobal); err != nil {
			rerr.add("zoom.restoreLevel", err)
		}
	}

	// Step 3: restore the captured shadow-mode flag.
	if o.snap.ZoomPerView != nil {
		if err := settings.Set(ctx, host.SettingZoomPerView, *o.snap.ZoomPerView, host.ScopeGlobal); err != nil {
			rerr.add("zoom.restoreShadow", err)
		}
	}

	// Step 4: reset only now. With the shadow flag back in place the
	// command is on its safe side again; issued any earlier it would have
	// destroyed the level written in step 2.
	if o.snap.ZoomPerView != nil && *o.snap.ZoomPerView {
		if err := o.h.Commands().Invoke(ctx, host.CmdResetZoom); err != nil {
			rerr.add("zoom.reset", err)
		}
	}
}
