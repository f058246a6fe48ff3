package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"healthcare-chart/internal/models"
)

type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Load(ctx context.Context) (*models.Dataset, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return &models.Dataset{Records: []models.Record{{State: "A", Occupation1: 20, Healthcare: 5}}}, nil
}

func TestLoaderCoalescesConcurrentLoads(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	loader := NewLoader(src, time.Second)

	var wg sync.WaitGroup
	var started atomic.Int32
	results := make([]*models.Dataset, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Add(1)
			ds, err := loader.Load(context.Background())
			if err != nil {
				t.Errorf("load %d: %v", i, err)
				return
			}
			results[i] = ds
		}(i)
	}

	// Let the callers pile up on the in-flight fetch before releasing it.
	for src.calls.Load() == 0 || started.Load() < int32(len(results)) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	if n := src.calls.Load(); n != 1 {
		t.Fatalf("source calls = %d, want 1", n)
	}
	for i, ds := range results {
		if ds == nil || len(ds.Records) != 1 {
			t.Fatalf("result %d = %+v", i, ds)
		}
	}
}

func TestLoaderPropagatesError(t *testing.T) {
	want := errors.New("unreachable")
	loader := NewLoader(&countingSource{err: want}, 0)
	if _, err := loader.Load(context.Background()); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestLoaderHonoursCallerCancellation(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	defer close(src.release)
	loader := NewLoader(src, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := loader.Load(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}
