package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore(30*time.Minute, WithClock(func() time.Time { return now }))
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "standings", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "standings:2014", loader); err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times within ttl, want 1", got)
	}

	now = now.Add(30*time.Minute - time.Second)
	if _, err := store.GetOrLoad(context.Background(), "standings:2014", loader); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times just before expiry, want 1", got)
	}

	now = now.Add(time.Second)
	if _, err := store.GetOrLoad(context.Background(), "standings:2014", loader); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times after expiry, want 2", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errUnexpectedValue
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestGetOrLoadAs_ReturnsTypedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	got, err := GetOrLoadAs(context.Background(), store, "teams:2021", func(context.Context) ([]string, error) {
		return []string{"Arsenal", "Chelsea"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoadAs error: %v", err)
	}
	if len(got) != 2 || got[0] != "Arsenal" {
		t.Fatalf("unexpected value %v", got)
	}

	store.Set(context.Background(), "teams:2002", 42)
	if _, err := GetOrLoadAs(context.Background(), store, "teams:2002", func(context.Context) ([]string, error) {
		return nil, nil
	}); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
}

func (o *recordingObserver) ObserveCacheLookup(class string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits[class]++
		return
	}
	o.misses[class]++
}

func TestStore_ObserverSeesHitsAndMisses(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{hits: map[string]int{}, misses: map[string]int{}}
	store := NewStore(time.Minute, WithObserver(obs))
	loader := func(context.Context) (any, error) { return 1, nil }

	_, _ = store.GetOrLoad(context.Background(), "scorers:2014", loader)
	_, _ = store.GetOrLoad(context.Background(), "scorers:2014", loader)
	store.Delete(context.Background(), "scorers:2014")
	_, _ = store.GetOrLoad(context.Background(), "scorers:2014", loader)

	if obs.hits["scorers"] != 1 || obs.misses["scorers"] != 2 {
		t.Fatalf("unexpected observations hits=%v misses=%v", obs.hits, obs.misses)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
