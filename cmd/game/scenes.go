package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/atomic"

	"github.com/younwookim/stagehand/internal/application/router"
	"github.com/younwookim/stagehand/internal/application/scene"
)

// Colors for rendering
var (
	colorBG      = color.RGBA{26, 26, 46, 255}
	colorLoadBG  = color.RGBA{12, 12, 20, 255}
	colorBarBG   = color.RGBA{60, 60, 60, 255}
	colorBarFG   = color.RGBA{100, 200, 100, 255}
	colorForest  = color.RGBA{20, 40, 28, 255}
	colorPanelBG = color.RGBA{0, 0, 0, 160}
)

// levelData is handed to the level scene once its producer resolves
type levelData struct {
	Title string
	Story string // resource key
}

// menuScene is the boot scene
type menuScene struct {
	scene.Base
	app *App
}

func (m *menuScene) Update(dt float64) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		m.app.Navigate("levels/forest", router.DataFunc(m.app.forestData))
	}
	return nil
}

func (m *menuScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	w, h := m.app.screenSize()
	ebitenutil.DebugPrintAt(screen, "STAGEHAND", w/2-27, h/2-30)
	ebitenutil.DebugPrintAt(screen, "Press ENTER to enter the forest", w/2-93, h/2)
}

// loadingScene shows a progress bar while resources load
type loadingScene struct {
	scene.Base
	app      *App
	progress atomic.Float64
	loading  atomic.Bool
}

func (l *loadingScene) OnEnter(data any) {
	l.loading.Store(false)
	l.progress.Store(0)
}

func (l *loadingScene) OnLoadStart() {
	l.loading.Store(true)
	l.progress.Store(0)
}

func (l *loadingScene) OnLoad(progress float64) {
	l.progress.Store(progress)
}

func (l *loadingScene) OnLoadComplete() {
	l.loading.Store(false)
	l.progress.Store(1)
}

func (l *loadingScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorLoadBG)
	w, h := l.app.screenSize()

	barW := float64(w) * 0.6
	barH := 8.0
	barX := (float64(w) - barW) / 2
	barY := float64(h) / 2

	ebitenutil.DrawRect(screen, barX, barY, barW, barH, colorBarBG)
	ebitenutil.DrawRect(screen, barX, barY, barW*l.progress.Load(), barH, colorBarFG)

	label := "Preparing"
	if l.loading.Load() {
		label = "Loading"
	}
	if l.Name() != "" {
		label = fmt.Sprintf("%s (%s)", label, l.Name())
	}
	ebitenutil.DebugPrintAt(screen, label, int(barX), int(barY)-20)

	if tips, ok := l.app.bootText("loading-tips"); ok {
		ebitenutil.DebugPrintAt(screen, tips, 8, h-24)
	}
}

// levelScene renders the data its producer resolved
type levelScene struct {
	scene.Base
	app  *App
	data atomic.Pointer[levelData]
}

func (s *levelScene) OnEnter(data any) {
	if d, ok := data.(*levelData); ok {
		s.data.Store(d)
	}
}

func (s *levelScene) OnIntroComplete() {
	s.app.log.Debug("level ready")
}

func (s *levelScene) Update(dt float64) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.app.Navigate("menu", nil)
	}
	return nil
}

func (s *levelScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorForest)
	w, h := s.app.screenSize()

	if tiles, ok := s.app.image("forest-tiles"); ok {
		tw, th := tiles.Bounds().Dx(), tiles.Bounds().Dy()
		for y := h - th*2; y < h; y += th {
			for x := 0; x < w; x += tw {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(float64(x), float64(y))
				screen.DrawImage(tiles, op)
			}
		}
	}

	ebitenutil.DrawRect(screen, 8, 8, float64(w-16), 64, colorPanelBG)
	if d := s.data.Load(); d != nil {
		text := d.Title
		if story, ok := s.app.text(d.Story); ok {
			text += "\n\n" + story
		}
		ebitenutil.DebugPrintAt(screen, text, 14, 12)
	}
	ebitenutil.DebugPrintAt(screen, "ESC: back to menu", 8, h-48)
}

// forestData resolves the level header. The delay keeps the loading scene
// on screen long enough to be seen.
func (a *App) forestData(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(400 * time.Millisecond):
	}
	return &levelData{Title: "The Forest", Story: "forest-story"}, nil
}
