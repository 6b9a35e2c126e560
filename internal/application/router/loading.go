package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/younwookim/stagehand/internal/application/scene"
)

// LoadingSceneKeyFor returns the loading scene shown while key loads: the
// first loading scene in manifest order with as many "/" segments as key,
// or DefaultLoadingScene.
func (r *Router) LoadingSceneKeyFor(key string) string {
	depth := strings.Count(key, "/")
	for _, k := range r.order {
		if r.scenes[k].IsLoadingScene && strings.Count(k, "/") == depth {
			return k
		}
	}
	return DefaultLoadingScene
}

// PreloadScene makes sure the scene under name is instantiated and that no
// declared resource is left unloaded. Load progress goes to the active scene.
func (r *Router) PreloadScene(ctx context.Context, name string) (scene.Scene, error) {
	s, ok := r.engine.Scene(name)
	if !r.sceneNeedsLoading(name) {
		return s, nil
	}

	if !ok {
		var err error
		if s, err = r.loadSceneFile(ctx, name); err != nil {
			return nil, err
		}
	}

	if pending := r.resources.Unloaded(); len(pending) > 0 {
		r.loader.AddResources(pending...)

		current := r.engine.CurrentScene()
		r.engine.Do(func() { scene.FireLoadStart(current) })

		// progress arrives on loader goroutines
		id := r.loader.On(func(progress float64) {
			r.engine.Do(func() { scene.FireLoad(current, progress) })
		})
		err := r.loader.Load(ctx)
		r.loader.Off(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResourceLoad, err)
		}

		r.engine.Do(func() { scene.FireLoadComplete(current) })
	}
	return s, nil
}

func (r *Router) sceneNeedsLoading(name string) bool {
	if _, ok := r.engine.Scene(name); !ok {
		return true
	}
	return r.resourcesNeedLoading()
}

func (r *Router) resourcesNeedLoading() bool {
	for res := range r.resources.All() {
		if !res.IsLoaded() {
			return true
		}
	}
	return false
}

// ensureScene returns the live scene for key, instantiating it if needed
func (r *Router) ensureScene(ctx context.Context, key string) (scene.Scene, error) {
	if s, ok := r.engine.Scene(key); ok {
		return s, nil
	}
	if _, ok := r.scenes[key]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, key)
	}
	return r.loadSceneFile(ctx, key)
}

// loadSceneFile creates the scene for name and adds it to the engine
func (r *Router) loadSceneFile(ctx context.Context, name string) (scene.Scene, error) {
	data := r.scenes[name]

	ctor := data.Scene
	if !data.IsPreloaded {
		if data.Import == nil {
			return nil, fmt.Errorf("%w: %q has no importer", ErrMissingSceneExport, name)
		}
		var err error
		if ctor, err = data.Import(ctx); err != nil {
			return nil, fmt.Errorf("import scene %q: %w", name, err)
		}
	}
	if ctor == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingSceneExport, name)
	}

	s := ctor()
	if s == nil {
		return nil, fmt.Errorf("%w: %q constructed nil", ErrMissingSceneExport, name)
	}
	scene.SetName(s, name)
	r.engine.AddScene(name, s)
	r.log.Debug("scene instantiated", zap.String("scene", name))
	return s, nil
}
