// Package event provides the event surface between the host editor and the
// focus mode session.
//
// The host publishes view and configuration events onto a Bus; the session
// subscribes with topic patterns and receives synchronous callbacks. All
// delivery is synchronous on the publisher's goroutine, matching the
// single-threaded cooperative model of the host editor: handlers must not
// block.
//
// Subscriptions are represented by handles that can be released individually
// or collected into a Group and torn down atomically.
package event
