package event

import "errors"

// Event bus errors.
var (
	// ErrInvalidTopic indicates a malformed topic or pattern.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler indicates a nil handler was supplied.
	ErrNilHandler = errors.New("nil handler")

	// ErrNotSubscribed indicates the subscription is unknown or already released.
	ErrNotSubscribed = errors.New("not subscribed")
)
