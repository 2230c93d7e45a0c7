package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("standings:2014", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_WaiterHonoursContext(t *testing.T) {
	var g SingleFlight
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _, _ = g.Do("teams:2021", func() (any, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err, shared := g.DoContext(ctx, "teams:2021", func() (any, error) {
		t.Error("waiter must not start its own call")
		return nil, nil
	})
	close(release)

	if !errors.Is(err, context.DeadlineExceeded) || !shared {
		t.Fatalf("expected shared deadline error, got %v shared=%t", err, shared)
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight
	_, err, _ := g.Do("scorers:2014", func() (any, error) {
		panic("boom")
	})
	if !errors.Is(err, ErrLoaderPanicked) {
		t.Fatalf("expected panic error, got %v", err)
	}

	val, err, _ := g.Do("scorers:2014", func() (any, error) { return 7, nil })
	if err != nil || val != 7 {
		t.Fatalf("expected key released after panic, got %v %v", val, err)
	}
}
