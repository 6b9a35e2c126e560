package router

import (
	"context"

	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/transition"
)

// executeTransition plays one phase of tr over the active scene. A nil tr is
// a no-op. The transition is killed once its intro settles.
func (r *Router) executeTransition(ctx context.Context, isOutro bool, tr transition.Transition, progress float64) (transition.Transition, error) {
	if tr == nil {
		return nil, nil
	}

	s := r.engine.CurrentScene()
	do := r.engine.Do

	r.transitioning.Store(true)
	do(func() { scene.SetTransitioning(s, true) })
	defer func() {
		do(func() { scene.SetTransitioning(s, false) })
		r.transitioning.Store(false)
	}()

	r.engine.Add(tr)

	if isOutro {
		do(func() { scene.FireOutroStart(s) })
	} else {
		do(func() { scene.FireIntroStart(s) })
	}

	// progress is emitted from the game loop while Execute blocks
	outro := tr.On(transition.PhaseOutro, func(p float64) { do(func() { scene.FireOutro(s, p) }) })
	intro := tr.On(transition.PhaseIntro, func(p float64) { do(func() { scene.FireIntro(s, p) }) })
	defer tr.Off(outro)
	defer tr.Off(intro)

	if !isOutro {
		defer tr.Kill()
	}

	if err := tr.Execute(ctx, isOutro, progress); err != nil {
		return tr, err
	}

	if isOutro {
		do(func() { scene.FireOutroComplete(s) })
	} else {
		do(func() { scene.FireIntroComplete(s) })
	}
	return tr, nil
}
