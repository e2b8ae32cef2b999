package session

import (
	"context"

	"github.com/dshills/limelight/internal/config"
	"github.com/dshills/limelight/internal/event"
	"github.com/dshills/limelight/internal/event/topic"
	"github.com/dshills/limelight/internal/host"
)

// registerSubscriptions wires the event handlers that keep an active
// session current. The group is disposed atomically on exit.
func (c *Controller) registerSubscriptions() {
	bus := c.h.Bus()

	c.subscribe(bus, event.TopicSelectionChanged, c.onSelectionChanged)
	c.subscribe(bus, event.TopicActiveViewChanged, c.onActiveViewChanged)
	c.subscribe(bus, event.TopicVisibleViewsChanged, c.onVisibleViewsChanged)
	c.subscribe(bus, event.TopicConfigChanged, c.onConfigChanged)
}

func (c *Controller) subscribe(bus *event.Bus, t topic.Topic, fn event.Handler) {
	sub, err := bus.SubscribeFunc(t, fn)
	if err != nil {
		c.log.Error("subscribe %s: %v", t, err)
		return
	}
	c.subs.Add(sub)
}

// onSelectionChanged recomputes the spotlight for the affected view,
// debounced so caret bursts coalesce to one recompute per window.
func (c *Controller) onSelectionChanged(_ topic.Topic, payload any) {
	sel, ok := payload.(event.SelectionChanged)
	if !ok {
		return
	}

	c.debounce.Trigger(func() {
		if c.Phase() != PhaseActive {
			return
		}
		if view, ok := c.findView(sel.ViewID); ok {
			c.applySpotlight(view)
		}
	})
}

// onActiveViewChanged reapplies line numbers and the spotlight to the newly
// active view.
func (c *Controller) onActiveViewChanged(_ topic.Topic, payload any) {
	ev, ok := payload.(event.ActiveViewChanged)
	if !ok || ev.ViewID == "" {
		return
	}
	if c.Phase() != PhaseActive {
		return
	}

	view, ok := c.findView(ev.ViewID)
	if !ok {
		return
	}
	if err := c.orch.ApplyLineNumberPolicy(view, c.Config().LineNumbers); err != nil {
		c.log.Warn("line numbers on %s: %v", view.ID(), err)
	}
	c.applySpotlight(view)
}

// onVisibleViewsChanged auto-exits when the last view closes.
func (c *Controller) onVisibleViewsChanged(_ topic.Topic, payload any) {
	ev, ok := payload.(event.VisibleViewsChanged)
	if !ok || len(ev.ViewIDs) > 0 {
		return
	}
	if c.Phase() != PhaseActive {
		return
	}

	c.log.Info("all views closed, exiting focus mode")
	if err := c.Exit(context.Background()); err != nil {
		c.log.Warn("auto-exit: %v", err)
	}
}

// onConfigChanged rebuilds the dim style and reapplies it once to the
// active view when limelight settings change mid-session.
func (c *Controller) onConfigChanged(_ topic.Topic, payload any) {
	ev, ok := payload.(event.ConfigChanged)
	if !ok || !ev.AffectsPrefix(config.KeyPrefix) {
		return
	}
	if c.Phase() != PhaseActive {
		return
	}

	cfg := config.Read(c.h.Settings())
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	c.marker.Recreate(cfg.Opacity)
	if view, ok := c.h.ActiveView(); ok {
		c.applySpotlight(view)
	}
}

func (c *Controller) findView(id string) (host.View, bool) {
	for _, view := range c.h.VisibleViews() {
		if view.ID() == id {
			return view, true
		}
	}
	return nil, false
}
