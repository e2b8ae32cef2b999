// Package topic provides hierarchical event topics using dot notation.
//
// Topics identify event streams such as "view.selection.changed" or
// "config.changed". Subscription patterns may use "*" to match exactly one
// segment and "**" to match any remaining segments.
package topic

import "strings"

// Topic represents a hierarchical event type using dot notation.
// Examples: "view.selection.changed", "config.changed".
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more trailing segments.
	WildcardMulti = "**"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Child returns a child topic by appending a segment.
//
// Example: "view".Child("selection") -> "view.selection"
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// Base returns the last segment of the topic.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// IsPattern reports whether the topic contains wildcard segments.
func (t Topic) IsPattern() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// Matches reports whether the concrete topic matches the given pattern.
// The receiver must be a concrete topic; pattern may contain wildcards.
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}

	topicSegs := t.Segments()
	patternSegs := pattern.Segments()

	ti := 0
	for pi, pseg := range patternSegs {
		if pseg == WildcardMulti {
			// Only valid as the final pattern segment.
			return pi == len(patternSegs)-1
		}
		if ti >= len(topicSegs) {
			return false
		}
		if pseg != WildcardSingle && pseg != topicSegs[ti] {
			return false
		}
		ti++
	}

	return ti == len(topicSegs)
}

// Validate reports whether the topic is well formed: non-empty, no empty
// segments, and "**" only in the final position.
func (t Topic) Validate() bool {
	segs := t.Segments()
	if len(segs) == 0 {
		return false
	}
	for i, seg := range segs {
		if seg == "" {
			return false
		}
		if seg == WildcardMulti && i != len(segs)-1 {
			return false
		}
	}
	return true
}
