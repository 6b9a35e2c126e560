package transition

import (
	"context"
	"errors"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ErrRunning is returned when Execute is called while a phase is playing
var ErrRunning = errors.New("transition: phase already running")

var (
	_ Transition   = (*Fade)(nil)
	_ LoadingAware = (*Fade)(nil)
)

// Fade covers the screen with a solid colour during the outro and uncovers
// it during the intro. Between the two phases the screen stays covered; while
// a loading scene is shown the overlay drops to the loading alpha, and the
// intro fades out from there.
type Fade struct {
	Emitter

	duration     float64 // seconds per phase
	color        color.RGBA
	loadingAlpha float64

	mu       sync.Mutex
	phase    Phase
	running  bool
	armed    bool // Update may advance; set once the start progress is emitted
	covered  bool
	killed   bool
	loading  bool
	from     float64 // opacity the intro starts from
	progress float64
	done     chan struct{}
}

// FadeOption configures a Fade
type FadeOption func(*Fade)

// WithLoadingAlpha sets the overlay opacity while a loading scene is shown.
// The default 1 keeps the loading scene hidden.
func WithLoadingAlpha(alpha float64) FadeOption {
	return func(f *Fade) {
		f.loadingAlpha = clamp01(alpha)
	}
}

// NewFade creates a fade lasting duration seconds per phase
func NewFade(duration float64, c color.Color, opts ...FadeOption) *Fade {
	r, g, b, a := c.RGBA()
	f := &Fade{
		duration:     duration,
		color:        color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)},
		loadingAlpha: 1,
		from:         1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetLoading switches the covered overlay to the loading alpha
func (f *Fade) SetLoading(loading bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = loading
}

// Execute plays one phase and waits for Update to drive it to completion
func (f *Fade) Execute(ctx context.Context, isOutro bool, startProgress float64) error {
	phase := PhaseFor(isOutro)
	start := clamp01(startProgress)

	f.mu.Lock()
	if f.killed {
		f.mu.Unlock()
		return ErrKilled
	}
	if f.running {
		f.mu.Unlock()
		return ErrRunning
	}

	f.phase = phase
	f.from = 1
	if !isOutro && f.covered && f.loading {
		f.from = f.loadingAlpha
	}
	f.loading = false
	if start >= 1 || f.duration <= 0 {
		f.progress = 1
		f.covered = isOutro
		f.mu.Unlock()
		f.Emit(phase, 1)
		return nil
	}

	done := make(chan struct{})
	f.progress = start
	f.running = true
	f.covered = false
	f.done = done
	f.mu.Unlock()

	f.Emit(phase, start)

	f.mu.Lock()
	if f.done == done {
		f.armed = true
	}
	f.mu.Unlock()

	select {
	case <-done:
		if f.Killed() {
			return ErrKilled
		}
		return nil
	case <-ctx.Done():
		f.mu.Lock()
		if f.done == done {
			f.running = false
			f.armed = false
			f.done = nil
		}
		f.mu.Unlock()
		return ctx.Err()
	}
}

// Update advances the running phase by dt seconds
func (f *Fade) Update(dt float64) error {
	f.mu.Lock()
	if !f.running || !f.armed {
		f.mu.Unlock()
		return nil
	}

	f.progress += dt / f.duration
	finished := f.progress >= 1
	if finished {
		f.progress = 1
	}
	phase, progress, done := f.phase, f.progress, f.done
	f.mu.Unlock()

	f.Emit(phase, progress)

	if finished {
		f.mu.Lock()
		if f.done == done && done != nil {
			f.running = false
			f.armed = false
			f.covered = phase == PhaseOutro
			f.done = nil
			close(done)
		}
		f.mu.Unlock()
	}
	return nil
}

// Draw paints the overlay at the current opacity
func (f *Fade) Draw(screen *ebiten.Image) {
	alpha := f.Alpha()
	if alpha <= 0 || screen == nil {
		return
	}

	b := screen.Bounds()
	c := color.RGBA{
		uint8(float64(f.color.R) * alpha),
		uint8(float64(f.color.G) * alpha),
		uint8(float64(f.color.B) * alpha),
		uint8(float64(f.color.A) * alpha),
	}
	ebitenutil.DrawRect(screen, float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()), c)
}

// Alpha returns overlay opacity in [0, 1]
func (f *Fade) Alpha() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.killed:
		return 0
	case f.running && f.phase == PhaseOutro:
		return f.progress
	case f.running:
		return f.from * (1 - f.progress)
	case f.covered && f.loading:
		return f.loadingAlpha
	case f.covered:
		return 1
	default:
		return 0
	}
}

// Running reports whether a phase is playing and accepting frames
func (f *Fade) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running && f.armed
}

// Kill stops the fade and releases a pending Execute
func (f *Fade) Kill() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.killed = true
	f.running = false
	f.armed = false
	f.covered = false
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
}

// Killed reports whether Kill was called
func (f *Fade) Killed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.killed
}

// Dead implements game.Object
func (f *Fade) Dead() bool { return f.Killed() }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
