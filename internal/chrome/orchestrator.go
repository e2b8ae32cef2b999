package chrome

import (
	"context"
	"fmt"

	"github.com/dshills/limelight/internal/config"
	"github.com/dshills/limelight/internal/host"
	"github.com/dshills/limelight/internal/logging"
)

// Tab strip and menu bar values written while focused.
const (
	tabsHidden    = "none"
	menuBarHidden = "hidden"
)

// bestEffortStep is one applied blind command and the command that inverts
// it.
type bestEffortStep struct {
	name    string
	inverse string
	flag    *bool
}

// Orchestrator owns the ambient-state ledger for one session at a time.
// It is not safe for concurrent use; the session controller serializes
// access.
type Orchestrator struct {
	h   host.Host
	log *logging.Logger

	ledger Ledger
	snap   Snapshot

	// bestEffort records applied blind commands in acquisition order.
	// Restore walks it backward to avoid UI layout thrashing.
	bestEffort []bestEffortStep

	// priorLineNumbers holds each view's captured line-number style,
	// keyed by view ID. First capture per view per session wins.
	priorLineNumbers map[string]string
}

// New creates an orchestrator over the given host.
func New(h host.Host, log *logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Discard()
	}
	return &Orchestrator{
		h:                h,
		log:              log.WithComponent("chrome"),
		priorLineNumbers: make(map[string]string),
	}
}

// Ledger returns a copy of the current ledger.
func (o *Orchestrator) Ledger() Ledger {
	return o.ledger
}

// Reset clears the ledger, snapshot, and per-view captures. Called at the
// Inactive->Entering boundary.
func (o *Orchestrator) Reset() {
	o.ledger.Reset()
	o.snap.Reset()
	o.bestEffort = nil
	o.priorLineNumbers = make(map[string]string)
}

// HideChrome applies the hide sequence for cfg. On any step failing it
// rolls back every already-applied mutation (secondary errors swallowed)
// and returns an error wrapping ErrTransitionAborted, so a partially
// applied hide never survives a failed enter.
func (o *Orchestrator) HideChrome(ctx context.Context, cfg config.FocusConfig) error {
	o.ledger.Reset()
	o.snap.Reset()
	o.bestEffort = nil

	if err := o.hideSteps(ctx, cfg); err != nil {
		o.log.Warn("hide failed, rolling back: %v", err)
		if rerr := o.RestoreChrome(ctx); rerr != nil {
			o.log.Warn("rollback incomplete: %v", rerr)
		}
		return fmt.Errorf("%w: %w", ErrTransitionAborted, err)
	}
	return nil
}

func (o *Orchestrator) hideSteps(ctx context.Context, cfg config.FocusConfig) error {
	// Best-effort tier first. Pure toggles run only when the config asks
	// for the feature; close-style commands run unconditionally.
	if cfg.FullScreen {
		if err := o.applyBestEffort(ctx, "fullScreen", host.CmdToggleFullScreen, host.CmdToggleFullScreen, &o.ledger.FullScreen); err != nil {
			return err
		}
	}
	if cfg.CenterLayout {
		if err := o.applyBestEffort(ctx, "centeredLayout", host.CmdToggleCenterLayout, host.CmdToggleCenterLayout, &o.ledger.CenteredLayout); err != nil {
			return err
		}
	}
	if err := o.applyBestEffort(ctx, "sidebar", host.CmdHideSidebar, host.CmdShowSidebar, &o.ledger.Sidebar); err != nil {
		return err
	}
	if err := o.applyBestEffort(ctx, "panel", host.CmdHidePanel, host.CmdShowPanel, &o.ledger.Panel); err != nil {
		return err
	}
	if err := o.applyBestEffort(ctx, "activityBar", host.CmdToggleActivityBar, host.CmdToggleActivityBar, &o.ledger.ActivityBar); err != nil {
		return err
	}
	if err := o.applyBestEffort(ctx, "statusBar", host.CmdToggleStatusBar, host.CmdToggleStatusBar, &o.ledger.StatusBar); err != nil {
		return err
	}

	// Deterministic tier: read, compare, write, flag.
	if cfg.HideMinimap {
		if err := o.setBoolSetting(ctx, "minimap", host.SettingMinimapEnabled, false, &o.snap.MinimapEnabled, &o.ledger.Minimap); err != nil {
			return err
		}
	}
	if err := o.setStringSetting(ctx, "tabs", host.SettingTabVisibility, tabsHidden, &o.snap.TabVisibility, &o.ledger.Tabs); err != nil {
		return err
	}
	if err := o.setBoolSetting(ctx, "viewActions", host.SettingViewActionsVisible, false, &o.snap.ViewActionsVisible, &o.ledger.ViewActions); err != nil {
		return err
	}
	if err := o.setBoolSetting(ctx, "breadcrumbs", host.SettingBreadcrumbsEnabled, false, &o.snap.BreadcrumbsEnabled, &o.ledger.Breadcrumbs); err != nil {
		return err
	}
	if err := o.setStringSetting(ctx, "menuBar", host.SettingMenuBarVisibility, menuBarHidden, &o.snap.MenuBarVisibility, &o.ledger.MenuBar); err != nil {
		return err
	}
	if err := o.setBoolSetting(ctx, "layoutControl", host.SettingLayoutControl, false, &o.snap.LayoutControl, &o.ledger.LayoutControl); err != nil {
		return err
	}

	// Zoom last: its protocol flips the per-view shadow mode and must not
	// be followed by further settings churn.
	if err := o.enterZoom(ctx); err != nil {
		return err
	}
	return nil
}

// RestoreChrome undoes every outstanding mutation: deterministic fields are
// written back from the snapshot, best-effort commands inverted in reverse
// acquisition order. Individual step failures are collected, never fatal;
// the returned error, if any, is a *RestoreError for reporting.
func (o *Orchestrator) RestoreChrome(ctx context.Context) error {
	var rerr RestoreError

	// Zoom was acquired last, so it goes back first.
	if o.ledger.Zoom {
		o.exitZoom(ctx, &rerr)
		o.ledger.Zoom = false
	}

	o.restoreBoolSetting(ctx, "layoutControl", host.SettingLayoutControl, o.snap.LayoutControl, &o.ledger.LayoutControl, &rerr)
	o.restoreStringSetting(ctx, "menuBar", host.SettingMenuBarVisibility, o.snap.MenuBarVisibility, &o.ledger.MenuBar, &rerr)
	o.restoreBoolSetting(ctx, "breadcrumbs", host.SettingBreadcrumbsEnabled, o.snap.BreadcrumbsEnabled, &o.ledger.Breadcrumbs, &rerr)
	o.restoreBoolSetting(ctx, "viewActions", host.SettingViewActionsVisible, o.snap.ViewActionsVisible, &o.ledger.ViewActions, &rerr)
	o.restoreStringSetting(ctx, "tabs", host.SettingTabVisibility, o.snap.TabVisibility, &o.ledger.Tabs, &rerr)
	o.restoreBoolSetting(ctx, "minimap", host.SettingMinimapEnabled, o.snap.MinimapEnabled, &o.ledger.Minimap, &rerr)

	for i := len(o.bestEffort) - 1; i >= 0; i-- {
		step := o.bestEffort[i]
		if !*step.flag {
			continue
		}
		if err := o.h.Commands().Invoke(ctx, step.inverse); err != nil {
			rerr.add(step.name, err)
		}
		*step.flag = false
	}
	o.bestEffort = nil

	o.ledger.Reset()
	o.snap.Reset()
	return rerr.orNil()
}

// RecoverBaseline is the crash-recovery restore: the prior process died
// mid-session, so the in-memory ledger and snapshot are gone. Only the
// idempotent close-style surfaces can be recovered blindly; reopening them
// returns the chrome to a usable baseline. Pure toggles and snapshot-backed
// fields are unknowable without the lost state and are left alone.
func (o *Orchestrator) RecoverBaseline(ctx context.Context) {
	o.Reset()
	o.ledger.Sidebar = true
	o.ledger.Panel = true
	o.bestEffort = []bestEffortStep{
		{name: "sidebar", inverse: host.CmdShowSidebar, flag: &o.ledger.Sidebar},
		{name: "panel", inverse: host.CmdShowPanel, flag: &o.ledger.Panel},
	}
	if err := o.RestoreChrome(ctx); err != nil {
		o.log.Warn("crash recovery restore: %v", err)
	}
}

// EnforceSingleViewGroup joins all view groups into one. Failure is fatal
// to the enter sequence; it runs before any chrome mutation.
func (o *Orchestrator) EnforceSingleViewGroup(ctx context.Context) error {
	if err := o.h.Commands().Invoke(ctx, host.CmdJoinAllViewGroups); err != nil {
		return fmt.Errorf("%w: %v", ErrCollapseFailed, err)
	}
	return nil
}

// ApplyLineNumberPolicy applies the configured line-number style to one
// view. The view's prior style is captured once per session on first touch;
// later calls for the same view keep the original capture.
func (o *Orchestrator) ApplyLineNumberPolicy(view host.View, policy config.LineNumberPolicy) error {
	if policy == config.PolicyInherit || view == nil {
		return nil
	}

	if _, captured := o.priorLineNumbers[view.ID()]; !captured {
		prior, _ := view.Option(host.ViewOptionLineNumbers, "on").(string)
		o.priorLineNumbers[view.ID()] = prior
	}

	if err := view.SetOption(host.ViewOptionLineNumbers, policy.String()); err != nil {
		return &StepError{Step: "lineNumbers", Err: err}
	}
	o.ledger.LineNumbers = true
	return nil
}

// RestoreLineNumberPolicy writes back the captured style for one view, if
// it was ever touched this session.
func (o *Orchestrator) RestoreLineNumberPolicy(view host.View) error {
	if view == nil {
		return nil
	}
	prior, ok := o.priorLineNumbers[view.ID()]
	if !ok {
		return nil
	}
	delete(o.priorLineNumbers, view.ID())
	if len(o.priorLineNumbers) == 0 {
		o.ledger.LineNumbers = false
	}

	if err := view.SetOption(host.ViewOptionLineNumbers, prior); err != nil {
		return &StepError{Step: "lineNumbers", Err: err}
	}
	return nil
}

// applyBestEffort invokes a blind hide-direction command and records the
// inverse for restore.
func (o *Orchestrator) applyBestEffort(ctx context.Context, name, cmd, inverse string, flag *bool) error {
	if err := o.h.Commands().Invoke(ctx, cmd); err != nil {
		return &StepError{Step: name, Err: err}
	}
	*flag = true
	o.bestEffort = append(o.bestEffort, bestEffortStep{name: name, inverse: inverse, flag: flag})
	return nil
}

// setBoolSetting runs the deterministic-tier protocol for a bool field:
// capture, compare, write only on difference.
func (o *Orchestrator) setBoolSetting(ctx context.Context, name, key string, target bool, capture **bool, flag *bool) error {
	current, _ := o.h.Settings().Get(key, target).(bool)
	v := current
	*capture = &v
	if current == target {
		return nil
	}
	if err := o.h.Settings().Set(ctx, key, target, host.ScopeGlobal); err != nil {
		return &StepError{Step: name, Err: err}
	}
	*flag = true
	return nil
}

func (o *Orchestrator) setStringSetting(ctx context.Context, name, key, target string, capture **string, flag *bool) error {
	current, _ := o.h.Settings().Get(key, target).(string)
	v := current
	*capture = &v
	if current == target {
		return nil
	}
	if err := o.h.Settings().Set(ctx, key, target, host.ScopeGlobal); err != nil {
		return &StepError{Step: name, Err: err}
	}
	*flag = true
	return nil
}

// restoreBoolSetting writes back the exact captured value, never a guessed
// default.
func (o *Orchestrator) restoreBoolSetting(ctx context.Context, name, key string, captured *bool, flag *bool, rerr *RestoreError) {
	if !*flag || captured == nil {
		*flag = false
		return
	}
	if err := o.h.Settings().Set(ctx, key, *captured, host.ScopeGlobal); err != nil {
		rerr.add(name, err)
	}
	*flag = false
}

func (o *Orchestrator) restoreStringSetting(ctx context.Context, name, key string, captured *string, flag *bool, rerr *RestoreError) {
	if !*flag || captured == nil {
		*flag = false
		return
	}
	if err := o.h.Settings().Set(ctx, key, *captured, host.ScopeGlobal); err != nil {
		rerr.add(name, err)
	}
	*flag = false
}
