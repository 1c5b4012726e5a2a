package share

import (
	"context"
	"sync"

	"github.com/cellarly/cellarctl/internal/api"
)

// Result is the deferred outcome of one wizard run. It resolves with the
// server's share response on success, or rejects with an error carrying the
// human-readable reason on cancellation or failure. It settles exactly once.
type Result struct {
	done chan struct{}
	once sync.Once

	mu   sync.Mutex
	resp *api.ShareResponse
	err  error
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

func (r *Result) resolve(resp *api.ShareResponse) {
	r.once.Do(func() {
		r.mu.Lock()
		r.resp = resp
		r.mu.Unlock()
		close(r.done)
	})
}

func (r *Result) reject(err error) {
	r.once.Do(func() {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		close(r.done)
	})
}

// Done returns a channel that is closed once the result has settled.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Settled reports whether the result has resolved or rejected.
func (r *Result) Settled() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Response returns the share response after the result has settled
// successfully, and nil otherwise.
func (r *Result) Response() *api.ShareResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resp
}

// Err returns the rejection error after the result has settled, and nil
// while pending or on success.
func (r *Result) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until the result settles or ctx is done, whichever comes
// first. Callers on the UI loop should use the Options callbacks instead.
func (r *Result) Wait(ctx context.Context) (*api.ShareResponse, error) {
	select {
	case <-r.done:
		return r.Response(), r.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
