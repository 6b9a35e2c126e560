// Package transition defines the outro/intro effect contract driven by the
// router, and a colour fade implementation.
//
// A transition is driven through two phases per navigation: the outro hides
// the scene being left and the intro reveals the scene being entered. The
// engine hosts the transition as an attached object, so its animation
// advances with the game loop while Execute blocks the navigation.
package transition

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/younwookim/stagehand/internal/application/game"
)

// ErrKilled is returned by Execute on a killed transition
var ErrKilled = errors.New("transition: killed")

// Phase names one half of a transition
type Phase int

const (
	// PhaseOutro hides the scene being left
	PhaseOutro Phase = iota
	// PhaseIntro reveals the scene being entered
	PhaseIntro
)

func (p Phase) String() string {
	switch p {
	case PhaseOutro:
		return "outro"
	case PhaseIntro:
		return "intro"
	default:
		return "unknown"
	}
}

// PhaseFor returns the phase Execute runs for isOutro
func PhaseFor(isOutro bool) Phase {
	if isOutro {
		return PhaseOutro
	}
	return PhaseIntro
}

// ProgressFunc receives phase progress in [0, 1]
type ProgressFunc func(progress float64)

// Transition is a two-phase visual effect
type Transition interface {
	game.Object

	// Execute plays one phase starting at startProgress and blocks until it
	// completes, the transition is killed, or ctx is done.
	// startProgress 1 completes the phase immediately.
	Execute(ctx context.Context, isOutro bool, startProgress float64) error

	// Kill ends the transition for good. It is removed from the engine on the
	// next update and further Execute calls fail with ErrKilled.
	Kill()
	Killed() bool

	// On subscribes to progress of a phase
	On(phase Phase, fn ProgressFunc) uuid.UUID
	Off(id uuid.UUID)
}

// LoadingAware is implemented by transitions that change their look while
// a loading scene is shown between the outro and the intro. The router calls
// SetLoading(true) after switching to the loading scene; the next Execute
// ends the loading state.
type LoadingAware interface {
	SetLoading(loading bool)
}

type subscription struct {
	id    uuid.UUID
	phase Phase
	fn    ProgressFunc
}

// Emitter keeps per-phase progress subscriptions. Embed it in transition
// implementations.
type Emitter struct {
	mu   sync.Mutex
	subs []subscription
}

// On subscribes fn to progress of phase
func (e *Emitter) On(phase Phase, fn ProgressFunc) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.New()
	e.subs = append(e.subs, subscription{id: id, phase: phase, fn: fn})
	return id
}

// Off removes a subscription
func (e *Emitter) Off(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber of phase. It must not be called with locks
// held that subscribers may take.
func (e *Emitter) Emit(phase Phase, progress float64) {
	e.mu.Lock()
	var fns []ProgressFunc
	for _, s := range e.subs {
		if s.phase == phase {
			fns = append(fns, s.fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(progress)
	}
}
