// Package runner tracks the lifecycle of long-running parts of the server, which can only be run once.
package runner

import (
	"errors"
	"sync"
)

// ErrAlreadyRun is returned when running a runner that is running or has finished.
var ErrAlreadyRun = errors.New("already running or has finished running, it can only be run once")

// Runner is a thread-safe structure that can be run, finished, and queried.
// The zero value is ready to run.
type Runner struct {
	mu       sync.Mutex
	running  bool
	finished bool
	done     chan struct{}
}

// Run marks the runner as running.  An error is returned if it was run before.
func (r *Runner) Run() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.finished {
		return ErrAlreadyRun
	}
	r.running = true
	return nil
}

// Finish marks the runner as done, regardless if it ran.  Finishing more than once has no effect.
func (r *Runner) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.running = false
	r.finished = true
	close(r.doneChan())
}

// IsRunning determines if the runner is running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Done is closed when the runner finishes.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneChan()
}

// doneChan lazily creates the done channel.  The lock must be held.
func (r *Runner) doneChan() chan struct{} {
	if r.done == nil {
		r.done = make(chan struct{})
	}
	return r.done
}
