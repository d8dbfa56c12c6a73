package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesOneLoadAcrossCallers(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 24
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

func TestStore_GetOrLoad_HitsCacheAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiredEntryMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "k", 1)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "player:detail:1", "a")
	store.Set(ctx, "player:detail:2", "b")
	store.Set(ctx, "team:list", "c")

	store.DeletePrefix(ctx, "player:")

	if _, ok := store.Get(ctx, "player:detail:1"); ok {
		t.Fatal("expected player:detail:1 to be invalidated")
	}
	if _, ok := store.Get(ctx, "player:detail:2"); ok {
		t.Fatal("expected player:detail:2 to be invalidated")
	}
	if _, ok := store.Get(ctx, "team:list"); !ok {
		t.Fatal("expected team:list to survive")
	}
}

func TestStore_GetOrLoad_PropagatesLoaderError(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("load failed")

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("failed load must not populate the cache")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
