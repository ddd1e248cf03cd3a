package courierstate

import "errors"

// ErrMissingCredential is returned when a user-initiated operation runs
// without an auth token. Passive loads skip silently instead.
var ErrMissingCredential = errors.New("courierstate: missing credential")

// ErrInvalidTransition is returned when the requested availability status is
// not in the manually settable set.
var ErrInvalidTransition = errors.New("courierstate: status cannot be requested manually")

// ErrForbiddenWhileBusy is returned when a manual status change is requested
// while the server-reported status is busy.
var ErrForbiddenWhileBusy = errors.New("courierstate: manual status change forbidden while busy")

// ErrRemoteCallFailed wraps any transport or server failure. The message
// carries the underlying error untouched.
var ErrRemoteCallFailed = errors.New("courierstate: remote call failed")

// ErrTaskNotFound is returned when a confirmed mutation cannot be mirrored
// because the task id is absent from the cache. The cache flags itself for
// a full reload.
var ErrTaskNotFound = errors.New("courierstate: task not found in cache")

// ErrUpdateInFlight is returned when a second status update is requested for
// a task whose previous update has not resolved yet.
var ErrUpdateInFlight = errors.New("courierstate: task update already in flight")
