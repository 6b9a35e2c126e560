package router

import "errors"

var (
	// ErrUnknownScene is returned for keys missing from the manifest.
	// Nothing is changed when it is returned.
	ErrUnknownScene = errors.New("router: unknown scene")

	// ErrMissingSceneExport is returned when a scene entry yields no constructor
	ErrMissingSceneExport = errors.New("router: scene has no constructor")

	// ErrResourceLoad wraps loader failures during a navigation. The engine
	// stays on the last activated scene, usually the loading scene.
	ErrResourceLoad = errors.New("router: resource load failed")

	// ErrDataResolution wraps a failing DataFunc. The target scene is not activated.
	ErrDataResolution = errors.New("router: scene data resolution failed")

	// ErrNavigationInProgress is returned when GoToScene is called while
	// another navigation has not finished.
	ErrNavigationInProgress = errors.New("router: navigation in progress")
)
