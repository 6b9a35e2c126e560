package router

import (
	"context"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/stagehand/internal/application/game"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/transition"
)

// runLoop drives the engine from a ticker the way ebiten's loop would.
// The returned stop waits for the loop goroutine to exit.
func (f *fixture) runLoop() (stop func()) {
	f.t.Helper()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				assert.NoError(f.t, f.engine.Update())
				f.engine.Draw(nil)
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
	f.t.Cleanup(stop)
	return stop
}

// lifecycle drops per-frame progress and flag entries
func lifecycle(events []string) []string {
	var out []string
	for _, e := range events {
		_, ev, _ := strings.Cut(e, ":")
		if strings.HasPrefix(ev, "outro(") || strings.HasPrefix(ev, "intro(") || strings.HasPrefix(ev, "transitioning=") {
			continue
		}
		out = append(out, e)
	}
	return out
}

func TestGoToScene_FadeDrivenByLoop(t *testing.T) {
	f := newFixture(t)
	r := f.build(&Manifest{
		BootScene:  "menu",
		Transition: transition.NewFade(0.05, color.Black),
		Scenes:     []SceneEntry{f.loading(DefaultLoadingScene), f.preloaded("menu"), f.lazy("level1")},
	})
	f.runLoop()

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, []string{"menu:enter", "menu:introStart", "menu:introComplete"}, lifecycle(f.log.all()))
	booted := len(f.log.all())

	res := &fakeResource{key: "level1/tiles"}
	require.NoError(t, f.reg.Add(res))

	fade := transition.NewFade(0.05, color.Black, transition.WithLoadingAlpha(0.25))
	var attached []game.Object
	var veil float64
	got, err := r.GoToScene(context.Background(), "level1", Options{
		Transition: fade,
		Data: DataFunc(func(ctx context.Context) (any, error) {
			attached = f.engine.Objects()
			veil = fade.Alpha()
			return "save-1", nil
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"menu:outroStart",
		"menu:outroComplete",
		"menu:exit",
		"_loading:enter",
		"_loading:loadStart",
		"_loading:load(1.00)",
		"_loading:loadComplete",
		"_loading:exit",
		"level1:enter",
		"level1:introStart",
		"level1:introComplete",
	}, lifecycle(f.log.all()[booted:]))

	assert.True(t, f.log.has("menu:outro(1)"), "outro progress reached the scene")
	assert.True(t, f.log.has("level1:intro(1)"), "intro progress reached the scene")

	require.Len(t, attached, 1, "transition stays attached while data resolves")
	assert.Same(t, fade, attached[0])
	assert.Equal(t, 0.25, veil, "loading scene shows through the veil")

	assert.Equal(t, "save-1", got.(*recScene).data)
	assert.True(t, fade.Killed())
	assert.Equal(t, 0.0, fade.Alpha())
	assert.False(t, r.IsTransitioning())
	assert.Eventually(t, func() bool { return len(f.engine.Objects()) == 0 }, time.Second, time.Millisecond,
		"dead fade is pruned by the loop")
}

// fieldScene keeps unsynchronized state touched by both the loop and the
// router's hooks
type fieldScene struct {
	scene.Base
	entered bool
	early   int // frames seen before OnEnter
	frames  int
	intro   float64
	outro   float64
}

func (s *fieldScene) OnEnter(data any)  { s.entered = true }
func (s *fieldScene) OnExit()           { s.entered = false }
func (s *fieldScene) OnIntro(p float64) { s.intro = p }
func (s *fieldScene) OnOutro(p float64) { s.outro = p }

func (s *fieldScene) Update(dt float64) error {
	if !s.entered {
		s.early++
	}
	s.frames++
	return nil
}

func (s *fieldScene) Draw(screen *ebiten.Image) {
	if !s.entered {
		s.early++
	}
}

func TestGoToScene_PlainFieldScenesUnderLoop(t *testing.T) {
	f := newFixture(t)
	fieldCtor := func() scene.Scene { return &fieldScene{} }
	r := f.build(&Manifest{
		BootScene: "menu",
		Scenes: []SceneEntry{
			{Key: "menu", Data: SceneData{Scene: fieldCtor, IsPreloaded: true}},
			{Key: "options", Data: SceneData{Scene: fieldCtor, IsPreloaded: true}},
		},
	})
	stop := f.runLoop()
	require.NoError(t, r.Start(context.Background()))

	for i := 0; i < 20; i++ {
		target := "options"
		if i%2 == 1 {
			target = "menu"
		}
		_, err := r.GoToScene(context.Background(), target, Options{
			Transition: transition.NewFade(0.02, color.Black),
		})
		require.NoError(t, err)
	}
	stop()

	for _, key := range []string{"menu", "options"} {
		sc, ok := f.engine.Scene(key)
		require.True(t, ok)
		s := sc.(*fieldScene)
		assert.Zero(t, s.early, "%s updated or drawn while not entered", key)
		assert.Positive(t, s.frames, key)
		assert.Equal(t, 1.0, s.intro, key)
		assert.Equal(t, 1.0, s.outro, key)
	}
	assert.Equal(t, "menu", f.engine.CurrentKey())
}
