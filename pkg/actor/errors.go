package actor

import "errors"

// ErrStopped is returned to any request submitted after the actor's Run
// loop has exited.
var ErrStopped = errors.New("actor: stopped")
