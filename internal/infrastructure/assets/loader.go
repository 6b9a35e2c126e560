// Package assets loads batches of resources and reports progress while doing so.
package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/younwookim/stagehand/internal/domain/resource"
)

// DefaultConcurrency is the number of resources loaded at once
const DefaultConcurrency = 4

// ProgressFunc receives the completed fraction of a load pass in [0, 1]
type ProgressFunc func(progress float64)

// Option configures a Loader
type Option func(*Loader)

// WithConcurrency limits parallel loads. Values below 1 mean one at a time.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n < 1 {
			n = 1
		}
		l.concurrency = n
	}
}

// WithLogger sets the logger used for load failures
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// Loader aggregates resources and loads the ones not yet loaded
type Loader struct {
	mu        sync.Mutex
	resources []resource.Resource
	keys      map[string]struct{}
	handlers  map[uuid.UUID]ProgressFunc
	order     []uuid.UUID

	// serializes progress callbacks across worker goroutines
	emitMu sync.Mutex

	concurrency int
	log         *zap.Logger
}

// New creates an empty loader
func New(opts ...Option) *Loader {
	l := &Loader{
		keys:        make(map[string]struct{}),
		handlers:    make(map[uuid.UUID]ProgressFunc),
		concurrency: DefaultConcurrency,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddResources queues resources. Already added keys are ignored.
func (l *Loader) AddResources(rs ...resource.Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range rs {
		if _, ok := l.keys[r.Key()]; ok {
			continue
		}
		l.keys[r.Key()] = struct{}{}
		l.resources = append(l.resources, r)
	}
}

// Len returns the number of added resources
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.resources)
}

// On subscribes to progress events. The returned id is passed to Off.
func (l *Loader) On(fn ProgressFunc) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := uuid.New()
	l.handlers[id] = fn
	l.order = append(l.order, id)
	return id
}

// Off removes a progress subscription
func (l *Loader) Off(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.handlers[id]; !ok {
		return
	}
	delete(l.handlers, id)
	for i, o := range l.order {
		if o == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Load loads every added resource that is not loaded yet. It returns once
// all of them succeed, or with the first error after canceling the rest.
func (l *Loader) Load(ctx context.Context) error {
	pending := l.pending()
	if len(pending) == 0 {
		return nil
	}

	total := len(pending)
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, r := range pending {
		g.Go(func() error {
			if err := r.Load(gctx); err != nil {
				l.log.Warn("resource load failed", zap.String("resource", r.Key()), zap.Error(err))
				return fmt.Errorf("load %q: %w", r.Key(), err)
			}

			l.emitMu.Lock()
			defer l.emitMu.Unlock()
			done++
			l.emit(float64(done) / float64(total))
			return nil
		})
	}

	return g.Wait()
}

func (l *Loader) pending() []resource.Resource {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []resource.Resource
	for _, r := range l.resources {
		if !r.IsLoaded() {
			out = append(out, r)
		}
	}
	return out
}

// emit must be called with emitMu held
func (l *Loader) emit(progress float64) {
	l.mu.Lock()
	fns := make([]ProgressFunc, 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.handlers[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(progress)
	}
}
