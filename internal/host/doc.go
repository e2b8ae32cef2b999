// Package host defines the contracts limelight consumes from its host
// editor.
//
// Limelight owns no rendering surface and no persistence format of its own;
// everything it touches in the ambient environment goes through the
// interfaces declared here: a key-scoped settings store, an opaque command
// surface, per-view options and dim markers, an event bus, and a small
// persistent keyed store.
//
// Commands come in two flavors the caller must not confuse. "Close"-style
// commands (hide sidebar, hide panel) are idempotent. Pure toggles (full
// screen, centered layout, activity bar, status bar) expose no readable
// pre-state; invoking one blindly flips the surface, so callers track their
// own invocations in a ledger to know what to invert later.
package host
