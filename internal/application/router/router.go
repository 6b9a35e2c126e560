// Package router decides which scene is active and orchestrates the loading
// and transitions around every scene change.
//
// A navigation runs these steps in order, each waiting for the previous one:
//
//  1. resolve the manifest entry (unknown keys fail before anything changes)
//  2. play the outro over the current scene
//  3. when the target has no instance, resources are outstanding, or its data
//     is deferred: show the matching loading scene, carrying the transition over
//  4. resolve deferred data
//  5. instantiate the target and load outstanding resources, reporting
//     progress to the active scene
//  6. activate the target with the resolved data
//  7. play the intro over the target and kill the transition
//
// Navigations are not queued. GoToScene fails with ErrNavigationInProgress
// while another one is running; Busy reports the same condition.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/younwookim/stagehand/internal/application/game"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/application/transition"
	"github.com/younwookim/stagehand/internal/domain/resource"
	"github.com/younwookim/stagehand/internal/infrastructure/assets"
)

// ErrAlreadyStarted is returned by a second call to Start
var ErrAlreadyStarted = errors.New("router: already started")

// Engine is the scene graph the router drives
type Engine interface {
	Scene(key string) (scene.Scene, bool)
	AddScene(key string, s scene.Scene)
	CurrentScene() scene.Scene
	Add(obj game.Object)
	GoToScene(key string, data any) error
	OnceActivate(key string, fn func(scene.Scene))
	// Do runs fn serialized with the active scene's Update and Draw. Every
	// hook the router fires goes through it.
	Do(fn func())
}

var _ Engine = (*game.Game)(nil)

// Loader loads batches of resources with progress events
type Loader interface {
	AddResources(rs ...resource.Resource)
	Load(ctx context.Context) error
	On(fn assets.ProgressFunc) uuid.UUID
	Off(id uuid.UUID)
}

var _ Loader = (*assets.Loader)(nil)

// DataFunc produces scene data asynchronously. Passing one as Options.Data
// routes the navigation through the loading scene while it runs.
type DataFunc func(ctx context.Context) (any, error)

// Options tunes a single navigation
type Options struct {
	// Data is handed to the target's OnEnter. A DataFunc is called first and
	// its result handed over instead.
	Data any
	// Transition plays around this navigation. It is killed afterwards.
	Transition transition.Transition
	// OnActivate runs once, right after the target becomes active
	OnActivate func(scene.Scene)
}

// Option configures a Router
type Option func(*Router)

// WithLogger sets the router logger
func WithLogger(log *zap.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// WithResources sets the registry of declared resources
func WithResources(reg *resource.Registry) Option {
	return func(r *Router) {
		r.resources = reg
	}
}

// WithLoader sets the shared loader used for scene resources
func WithLoader(l Loader) Option {
	return func(r *Router) {
		r.loader = l
	}
}

// WithBootLoader sets the factory for the one-off loader used for the
// loading scene resources at boot
func WithBootLoader(fn func() Loader) Option {
	return func(r *Router) {
		r.newBootLoader = fn
	}
}

// Router is the navigation state machine
type Router struct {
	manifest  *Manifest
	engine    Engine
	scenes    map[string]SceneData
	order     []string
	resources *resource.Registry

	loader        Loader
	newBootLoader func() Loader
	log           *zap.Logger

	started       atomic.Bool
	booting       atomic.Bool
	transitioning atomic.Bool
	navigating    atomic.Bool
	state         atomic.Int32
}

// New creates a router for manifest m driving engine
func New(m *Manifest, engine Engine, opts ...Option) (*Router, error) {
	r := &Router{
		manifest:  m,
		engine:    engine,
		scenes:    make(map[string]SceneData, len(m.Scenes)),
		resources: resource.NewRegistry(),
		log:       zap.NewNop(),
	}
	r.booting.Store(true)

	for _, e := range m.Scenes {
		if _, ok := r.scenes[e.Key]; ok {
			return nil, fmt.Errorf("router: duplicate scene %q", e.Key)
		}
		r.scenes[e.Key] = e.Data
		r.order = append(r.order, e.Key)
	}
	if _, ok := r.scenes[m.BootScene]; !ok {
		return nil, fmt.Errorf("%w: boot scene %q", ErrUnknownScene, m.BootScene)
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.loader == nil {
		r.loader = assets.New(assets.WithLogger(r.log))
	}
	if r.newBootLoader == nil {
		r.newBootLoader = func() Loader { return assets.New(assets.WithLogger(r.log)) }
	}
	return r, nil
}

// Start instantiates preloaded scenes, loads anything queued on the shared
// loader and navigates to the boot scene with the manifest transition.
// A failed Start may be called again.
func (r *Router) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := r.boot(ctx); err != nil {
		r.started.Store(false)
		return err
	}
	return nil
}

func (r *Router) boot(ctx context.Context) error {
	for _, key := range r.order {
		if !r.scenes[key].IsPreloaded {
			continue
		}
		if _, ok := r.engine.Scene(key); ok {
			continue
		}
		if _, err := r.loadSceneFile(ctx, key); err != nil {
			return err
		}
	}

	if err := r.loader.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrResourceLoad, err)
	}

	r.log.Info("booting", zap.String("scene", r.manifest.BootScene))
	_, err := r.navigate(ctx, r.manifest.BootScene, Options{Transition: r.manifest.Transition}, true)
	return err
}

// GoToScene navigates to the scene registered under name and returns it once
// its intro has finished.
func (r *Router) GoToScene(ctx context.Context, name string, opts Options) (scene.Scene, error) {
	return r.navigate(ctx, name, opts, false)
}

func (r *Router) navigate(ctx context.Context, name string, opts Options, initial bool) (scene.Scene, error) {
	if _, ok := r.scenes[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	if !r.navigating.CompareAndSwap(false, true) {
		return nil, ErrNavigationInProgress
	}
	defer r.navigating.Store(false)
	defer r.state.Store(int32(state.StateIdle))

	log := r.log.With(zap.Stringer("nav", uuid.New()), zap.String("scene", name))
	log.Debug("navigation started", zap.Bool("initial", initial))

	r.enter(log, state.StateOutro)
	startProgress := 0.0
	if initial {
		// nothing to hide at boot
		startProgress = 1
	}
	tr, err := r.executeTransition(ctx, true, opts.Transition, startProgress)
	if err != nil {
		log.Warn("outro failed", zap.Error(err))
		return nil, err
	}

	produce, deferred := deferredData(opts.Data)

	if r.sceneNeedsLoading(name) || deferred {
		r.enter(log, state.StateLoading)
		if err := r.showLoadingScene(ctx, log, name, tr, initial); err != nil {
			log.Warn("loading scene failed", zap.Error(err))
			return nil, err
		}
	}

	r.enter(log, state.StateResolvingData)
	data := opts.Data
	if deferred {
		data, err = produce(ctx)
		if err != nil {
			log.Warn("data resolution failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrDataResolution, err)
		}
	}

	r.enter(log, state.StatePreloading)
	target, err := r.PreloadScene(ctx, name)
	if err != nil {
		log.Warn("preload failed", zap.Error(err))
		return nil, err
	}

	r.booting.Store(false)

	r.enter(log, state.StateActivating)
	r.engine.OnceActivate(name, func(s scene.Scene) {
		if opts.OnActivate != nil {
			opts.OnActivate(s)
		}
	})
	if err := r.engine.GoToScene(name, data); err != nil {
		return nil, err
	}

	r.enter(log, state.StateIntro)
	if _, err := r.executeTransition(ctx, false, opts.Transition, 0); err != nil {
		log.Warn("intro failed", zap.Error(err))
		return nil, err
	}

	log.Debug("navigation finished")
	return target, nil
}

func (r *Router) showLoadingScene(ctx context.Context, log *zap.Logger, name string, tr transition.Transition, initial bool) error {
	if initial && len(r.manifest.LoadingSceneResources) > 0 {
		// separate loader so these stay out of the shared pool
		boot := r.newBootLoader()
		boot.AddResources(r.manifest.LoadingSceneResources...)
		if err := boot.Load(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrResourceLoad, err)
		}
	}

	key := r.LoadingSceneKeyFor(name)
	if _, err := r.ensureScene(ctx, key); err != nil {
		return err
	}
	log.Debug("showing loading scene", zap.String("loading", key))
	if err := r.engine.GoToScene(key, nil); err != nil {
		return err
	}

	// switching scenes drops attached objects; keep the transition on screen
	if tr != nil {
		r.engine.Add(tr)
		if la, ok := tr.(transition.LoadingAware); ok {
			la.SetLoading(true)
		}
	}
	return nil
}

func (r *Router) enter(log *zap.Logger, s state.NavState) {
	r.state.Store(int32(s))
	log.Debug("navigation step", zap.Stringer("state", s))
}

func deferredData(v any) (DataFunc, bool) {
	switch f := v.(type) {
	case DataFunc:
		return f, f != nil
	case func(context.Context) (any, error):
		return f, f != nil
	default:
		return nil, false
	}
}

// CurrentScene returns the engine's active scene
func (r *Router) CurrentScene() scene.Scene {
	return r.engine.CurrentScene()
}

// SceneByName returns the live instance for key, if any
func (r *Router) SceneByName(key string) (scene.Scene, bool) {
	return r.engine.Scene(key)
}

// IsBooting reports whether the first navigation has not activated its
// target yet
func (r *Router) IsBooting() bool { return r.booting.Load() }

// IsTransitioning reports whether an outro or intro is playing
func (r *Router) IsTransitioning() bool { return r.transitioning.Load() }

// Busy reports whether a navigation is running
func (r *Router) Busy() bool { return r.navigating.Load() }

// State returns the step the running navigation is in
func (r *Router) State() state.NavState { return state.NavState(r.state.Load()) }
