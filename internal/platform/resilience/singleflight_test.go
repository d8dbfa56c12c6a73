package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var calls atomic.Int32
	var shared atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, dedup := flight.Do("key", func() (any, error) {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got, _ := v.(int); got != 42 {
				t.Errorf("got %v, want 42", v)
			}
			if dedup {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn called %d times, want 1", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("%d callers shared the result, want %d", got, workers-1)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var flight SingleFlight

	a, _, _ := flight.Do("a", func() (any, error) { return "a", nil })
	b, _, _ := flight.Do("b", func() (any, error) { return "b", nil })

	if a != "a" || b != "b" {
		t.Fatalf("got %v and %v, want a and b", a, b)
	}
}
