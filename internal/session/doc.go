// Package session sequences focus mode: the enter/exit state machine, the
// event subscriptions that keep the spotlight current, and crash recovery.
//
// One controller exists per process, owned by the host's lifecycle code and
// injected where needed; nothing in this package reaches for globals, so
// tests construct independent controllers freely.
//
// All operations run on the host's single logical control flow. Every await
// of a host command or settings write is a suspension point where another
// trigger may interleave, which is why the reentrancy guard and the ledger
// resets in package chrome are load-bearing: a toggle observed while a
// transition is in flight is dropped, never queued.
package session
