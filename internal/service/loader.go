package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"healthcare-chart/internal/models"
)

// Loader wraps a DataSource so overlapping render passes share one fetch
type Loader struct {
	source  DataSource
	timeout time.Duration
	group   singleflight.Group
}

func NewLoader(source DataSource, timeout time.Duration) *Loader {
	return &Loader{source: source, timeout: timeout}
}

func (l *Loader) Source() string { return l.source.Name() }

// Load fetches the dataset. Callers arriving while a fetch is in flight
// receive its result. No retry is attempted.
func (l *Loader) Load(ctx context.Context) (*models.Dataset, error) {
	ch := l.group.DoChan("dataset", func() (interface{}, error) {
		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this fetch
		fetchCtx := context.WithoutCancel(ctx)
		if l.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, l.timeout)
			defer cancel()
		}
		start := time.Now()
		ds, err := l.source.Load(fetchCtx)
		if err != nil {
			return nil, err
		}
		log.Printf("loaded %d records from %s in %s (skipped %d)",
			len(ds.Records), l.source.Name(), time.Since(start).Round(time.Millisecond), ds.Skipped)
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Dataset), nil
	}
}
