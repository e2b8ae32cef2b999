package event

import "github.com/dshills/limelight/internal/event/topic"

// Topics published by the host while a session may be listening.
const (
	// TopicSelectionChanged fires when the caret set of a view changes.
	TopicSelectionChanged topic.Topic = "view.selection.changed"

	// TopicActiveViewChanged fires when a different view becomes active.
	// The payload ViewID is empty when no view is active.
	TopicActiveViewChanged topic.Topic = "view.active.changed"

	// TopicVisibleViewsChanged fires when the set of visible views changes.
	TopicVisibleViewsChanged topic.Topic = "view.visible.changed"

	// TopicConfigChanged fires when settings are modified.
	TopicConfigChanged topic.Topic = "config.changed"

	// TopicViewAll matches every view event.
	TopicViewAll topic.Topic = "view.**"
)

// SelectionChanged is the payload for TopicSelectionChanged.
type SelectionChanged struct {
	// ViewID identifies the view whose selection moved.
	ViewID string

	// CaretLines are the 0-based lines holding carets, in caret order.
	// Duplicates are permitted; consumers collapse them.
	CaretLines []int
}

// ActiveViewChanged is the payload for TopicActiveViewChanged.
type ActiveViewChanged struct {
	// ViewID is the newly active view, or "" when focus left all views.
	ViewID string
}

// VisibleViewsChanged is the payload for TopicVisibleViewsChanged.
type VisibleViewsChanged struct {
	// ViewIDs lists every currently visible view. Empty means all closed.
	ViewIDs []string
}

// ConfigChanged is the payload for TopicConfigChanged.
type ConfigChanged struct {
	// Keys are the dot-separated setting keys that changed.
	Keys []string
}

// AffectsPrefix reports whether any changed key starts with the prefix.
func (c ConfigChanged) AffectsPrefix(prefix string) bool {
	for _, k := range c.Keys {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
