package bridge

import (
	"context"
	"sync"
)

// Future is a Result that arrives later. It resolves exactly once; later
// Resolve calls are ignored.
type Future struct {
	once   sync.Once
	done   chan struct{}
	result Result
}

// NewFuture returns an unresolved Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a Future already holding r.
func Resolved(r Result) *Future {
	f := NewFuture()
	f.Resolve(r)
	return f
}

// Resolve sets the result. It reports whether this call was the one that
// resolved the Future.
func (f *Future) Resolve(r Result) bool {
	resolved := false
	f.once.Do(func() {
		f.result = r
		close(f.done)
		resolved = true
	})
	return resolved
}

// Done is closed once the Future resolves.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the result without blocking; ok is false while pending.
func (f *Future) Result() (r Result, ok bool) {
	select {
	case <-f.done:
		return f.result, true
	default:
		return Result{}, false
	}
}

// Await blocks until the Future resolves or ctx is done.
func (f *Future) Await(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
