package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/atomic"
)

// Base provides no-op Scene methods plus name and transitioning bookkeeping.
// Embed it and override what the scene needs.
type Base struct {
	name          atomic.String
	transitioning atomic.Bool
}

// Update does nothing
func (b *Base) Update(dt float64) error { return nil }

// Draw does nothing
func (b *Base) Draw(screen *ebiten.Image) {}

// OnEnter does nothing
func (b *Base) OnEnter(data any) {}

// OnExit does nothing
func (b *Base) OnExit() {}

// SetName stores the registry key the scene was created under
func (b *Base) SetName(name string) { b.name.Store(name) }

// Name returns the registry key, empty until the router names the scene
func (b *Base) Name() string { return b.name.Load() }

// SetTransitioning is called by the router around outros and intros
func (b *Base) SetTransitioning(v bool) { b.transitioning.Store(v) }

// IsTransitioning reports whether a transition is playing over the scene
func (b *Base) IsTransitioning() bool { return b.transitioning.Load() }
