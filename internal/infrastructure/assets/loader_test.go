package assets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap/zaptest"
)

// fakeResource is a test double for resource.Resource
type fakeResource struct {
	key       string
	err       error
	loadCalls atomic.Int32
	loaded    atomic.Bool
}

func (f *fakeResource) Key() string    { return f.key }
func (f *fakeResource) IsLoaded() bool { return f.loaded.Load() }

func (f *fakeResource) Load(ctx context.Context) error {
	f.loadCalls.Inc()
	if f.err != nil {
		return f.err
	}
	f.loaded.Store(true)
	return nil
}

func TestLoader_AddResourcesIsIdempotent(t *testing.T) {
	l := New()
	a := &fakeResource{key: "a"}

	l.AddResources(a, a)
	l.AddResources(&fakeResource{key: "a"}, &fakeResource{key: "b"})

	assert.Equal(t, 2, l.Len())
}

func TestLoader_LoadReportsProgress(t *testing.T) {
	l := New(WithConcurrency(2), WithLogger(zaptest.NewLogger(t)))
	rs := []*fakeResource{{key: "a"}, {key: "b"}, {key: "c"}, {key: "d"}}
	for _, r := range rs {
		l.AddResources(r)
	}

	var mu sync.Mutex
	var events []float64
	l.On(func(p float64) {
		mu.Lock()
		events = append(events, p)
		mu.Unlock()
	})

	require.NoError(t, l.Load(context.Background()))

	for _, r := range rs {
		assert.True(t, r.IsLoaded(), r.key)
	}
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, events)
}

func TestLoader_LoadSkipsLoadedResources(t *testing.T) {
	l := New()
	a := &fakeResource{key: "a"}
	b := &fakeResource{key: "b"}
	b.loaded.Store(true)
	l.AddResources(a, b)

	var events []float64
	l.On(func(p float64) { events = append(events, p) })

	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, int32(1), a.loadCalls.Load())
	assert.Equal(t, int32(0), b.loadCalls.Load())
	assert.Equal(t, []float64{1}, events)

	// second pass has nothing left to do
	events = nil
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, int32(1), a.loadCalls.Load())
	assert.Empty(t, events)
}

func TestLoader_LoadEmpty(t *testing.T) {
	l := New()
	called := false
	l.On(func(float64) { called = true })

	assert.NoError(t, l.Load(context.Background()))
	assert.False(t, called)
}

func TestLoader_LoadFailure(t *testing.T) {
	boom := errors.New("boom")
	l := New(WithConcurrency(1), WithLogger(zaptest.NewLogger(t)))
	l.AddResources(&fakeResource{key: "ok"}, &fakeResource{key: "bad", err: boom})

	err := l.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestLoader_Off(t *testing.T) {
	l := New()
	l.AddResources(&fakeResource{key: "a"})

	var first, second int
	id := l.On(func(float64) { first++ })
	l.On(func(float64) { second++ })
	l.Off(id)
	l.Off(id) // unknown ids are ignored

	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestWithConcurrency_Floor(t *testing.T) {
	l := New(WithConcurrency(0))
	assert.Equal(t, 1, l.concurrency)
}
