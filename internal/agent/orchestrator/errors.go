package orchestrator

import "errors"

// ErrTurnInProgress is returned by ProactivePing when a live turn already
// holds the user's guard; the ping is skipped, not queued.
var ErrTurnInProgress = errors.New("conversation turn already in progress")
