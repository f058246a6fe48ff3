package chart

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"healthcare-chart/internal/state"
)

// DefaultSession is used by callers that send no session token
const DefaultSession = ""

// Views keeps one renderer per client session. Every session renders into
// its own surface with its own generation counter, so a pass is only ever
// superseded by a newer pass from the same client.
type Views struct {
	loader  Loader
	margins Margins

	mu    sync.Mutex
	cache *lru.Cache[string, *Renderer]
}

// NewViews bounds the number of live sessions; the least recently used one
// is evicted first.
func NewViews(loader Loader, margins Margins, size int) (*Views, error) {
	cache, err := lru.New[string, *Renderer](size)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	v := &Views{loader: loader, margins: margins, cache: cache}
	if _, err := v.Renderer(DefaultSession); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Views) Margins() Margins { return v.margins }

// Renderer returns the session's renderer, creating its surface on first use
func (v *Views) Renderer(session string) (*Renderer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if r, ok := v.cache.Get(session); ok {
		return r, nil
	}
	surface := state.NewSurface(ChartSelector, PlotSelector)
	r, err := NewRenderer(surface, ChartSelector, v.loader, v.margins)
	if err != nil {
		return nil, err
	}
	v.cache.Add(session, r)
	return r, nil
}

// Len reports how many sessions are live
func (v *Views) Len() int { return v.cache.Len() }
