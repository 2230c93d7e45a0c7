package resilience

import (
	"context"
	"fmt"
	"sync"

	crerr "github.com/cockroachdb/errors"
)

// ErrLoaderPanicked is returned to every caller of a flight whose function panicked.
var ErrLoaderPanicked = crerr.New("singleflight: loader panicked")

// SingleFlight collapses concurrent calls for the same key into one. The zero
// value is ready to use.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.DoContext(context.Background(), key, fn)
}

// DoContext is Do where a waiting caller gives up when its own ctx ends. The
// flight keeps running for the caller that started it. shared is true for
// every caller that joined an existing flight.
func (g *SingleFlight) DoContext(ctx context.Context, key string, fn func() (any, error)) (val any, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight)
	}
	if f, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-f.done:
			return f.val, f.err, true
		case <-ctx.Done():
			return nil, ctx.Err(), true
		}
	}

	f := &flight{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	g.run(key, f, fn)
	return f.val, f.err, false
}

func (g *SingleFlight) run(key string, f *flight, fn func() (any, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.val, f.err = nil, crerr.Wrap(ErrLoaderPanicked, fmt.Sprint(r))
		}
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(f.done)
	}()
	f.val, f.err = fn()
}
