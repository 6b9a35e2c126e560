// Package scene defines the Scene interface for game screens.
//
// Each game screen (title, loading, level, etc.) implements the Scene
// interface to handle its own update logic and rendering. Lifecycle hooks
// used by the router during loading and transitions are optional: a scene
// opts in to each one by implementing the matching single-method interface.
//
// Navigation runs off the game loop, but the engine never calls into a scene
// concurrently: Update, Draw, OnEnter, OnExit and every optional hook are
// serialized, and a scene is not updated or drawn before its OnEnter returns.
// Scenes can keep plain fields. They must not block the navigation they are
// part of, so start navigations from a goroutine.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene represents a game screen (title, loading, level, etc.)
//
// The engine delegates Update and Draw calls to the active scene.
// Scene changes are requested through the router, never by the scene itself.
type Scene interface {
	// Update updates the scene state.
	// dt is the delta time in seconds (typically 1/60).
	// Returns an error to terminate the game.
	Update(dt float64) error

	// Draw renders the scene to the screen.
	Draw(screen *ebiten.Image)

	// OnEnter is called each time the scene becomes active.
	// data is whatever the navigation resolved, often nil.
	OnEnter(data any)

	// OnExit is called when another scene becomes active.
	OnExit()
}
