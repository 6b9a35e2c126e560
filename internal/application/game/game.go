// Package game provides the engine that owns the scene graph and drives the
// active scene from the ebiten loop.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/stagehand/internal/application/scene"
)

// ErrSceneNotFound is returned when switching to a key with no scene added
var ErrSceneNotFound = errors.New("game: scene not found")

// Object is something attached to the active scene's object graph, such as a
// transition overlay. Objects draw on top of the scene and are dropped when
// the active scene changes or when they report Dead.
type Object interface {
	Update(dt float64) error
	Draw(screen *ebiten.Image)
	Dead() bool
}

// Game implements ebiten.Game and holds the scene graph.
//
// The scene graph is written from navigation goroutines and read from the
// ebiten loop, so every access goes through mu. Scene callbacks never run
// concurrently with each other: Update, Draw, OnEnter, OnExit, activation
// callbacks and anything passed to Do all hold sceneMu. Scenes may keep plain
// fields and must not call GoToScene or Do from their own callbacks.
//
// Lock order is sceneMu before mu.
type Game struct {
	sceneMu sync.Mutex

	mu         sync.Mutex
	scenes     map[string]scene.Scene
	current    scene.Scene
	currentKey string
	objects    []Object
	onActivate map[string][]func(scene.Scene)

	screenW int
	screenH int
	dt      float64
}

// New creates a Game with no scenes.
// Nothing is drawn until GoToScene is called.
func New(screenW, screenH int) *Game {
	return &Game{
		scenes:     make(map[string]scene.Scene),
		onActivate: make(map[string][]func(scene.Scene)),
		screenW:    screenW,
		screenH:    screenH,
		dt:         1.0 / 60.0, // Default to 60 FPS
	}
}

// AddScene registers a scene under key, replacing any previous one
func (g *Game) AddScene(key string, s scene.Scene) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scenes[key] = s
}

// Scene returns the scene registered under key
func (g *Game) Scene(key string) (scene.Scene, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.scenes[key]
	return s, ok
}

// CurrentScene returns the active scene, nil before the first switch
func (g *Game) CurrentScene() scene.Scene {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// CurrentKey returns the key of the active scene
func (g *Game) CurrentKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey
}

// Add attaches an object to the active scene. Adding an object that is
// already attached is a no-op.
func (g *Game) Add(obj Object) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, o := range g.objects {
		if o == obj {
			return
		}
	}
	g.objects = append(g.objects, obj)
}

// Objects returns the objects attached to the active scene
func (g *Game) Objects() []Object {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Object(nil), g.objects...)
}

// OnceActivate registers fn to run the next time the scene under key is activated
func (g *Game) OnceActivate(key string, fn func(scene.Scene)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onActivate[key] = append(g.onActivate[key], fn)
}

// GoToScene makes the scene under key active. The previous scene gets OnExit,
// its attached objects are dropped, and the new scene gets OnEnter(data)
// followed by any pending activation callbacks. The loop sees the new scene
// only after OnEnter has returned.
func (g *Game) GoToScene(key string, data any) error {
	g.sceneMu.Lock()
	defer g.sceneMu.Unlock()

	g.mu.Lock()
	next, ok := g.scenes[key]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrSceneNotFound, key)
	}
	prev := g.current
	g.objects = nil
	g.mu.Unlock()

	if prev != nil {
		prev.OnExit()
	}
	next.OnEnter(data)

	g.mu.Lock()
	g.current = next
	g.currentKey = key
	pending := g.onActivate[key]
	delete(g.onActivate, key)
	g.mu.Unlock()

	for _, fn := range pending {
		fn(next)
	}
	return nil
}

// Do runs fn serialized with the active scene's callbacks. Use it to touch
// scene state from goroutines other than the game loop.
func (g *Game) Do(fn func()) {
	g.sceneMu.Lock()
	defer g.sceneMu.Unlock()
	fn()
}

// Update updates the active scene and its attached objects.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	if err := g.updateScene(); err != nil {
		return err
	}

	// objects run outside sceneMu; transitions report progress through Do
	for _, obj := range g.Objects() {
		if err := obj.Update(g.dt); err != nil {
			return err
		}
	}

	g.prune()
	return nil
}

func (g *Game) updateScene() error {
	g.sceneMu.Lock()
	defer g.sceneMu.Unlock()

	if current := g.CurrentScene(); current != nil {
		return current.Update(g.dt)
	}
	return nil
}

func (g *Game) prune() {
	g.mu.Lock()
	defer g.mu.Unlock()

	alive := g.objects[:0]
	for _, obj := range g.objects {
		if !obj.Dead() {
			alive = append(alive, obj)
		}
	}
	for i := len(alive); i < len(g.objects); i++ {
		g.objects[i] = nil
	}
	g.objects = alive
}

// Draw renders the active scene, then its attached objects.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.drawScene(screen)

	for _, obj := range g.Objects() {
		if !obj.Dead() {
			obj.Draw(screen)
		}
	}
}

func (g *Game) drawScene(screen *ebiten.Image) {
	g.sceneMu.Lock()
	defer g.sceneMu.Unlock()

	if current := g.CurrentScene(); current != nil {
		current.Draw(screen)
	}
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}
