package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/stagehand/internal/application/game"
	"github.com/younwookim/stagehand/internal/application/router"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/system"
	"github.com/younwookim/stagehand/internal/domain/resource"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
	"github.com/younwookim/stagehand/internal/infrastructure/logging"
)

// App wires the engine, the router and the demo scenes together
type App struct {
	ctx       context.Context
	cfg       *config.ManifestConfig
	log       *zap.Logger
	engine    *game.Game
	router    *router.Router
	resources *resource.Registry
	boot      map[string]resource.Resource
}

// NewApp builds the engine and router for cfg. Resource paths resolve
// against fsys.
func NewApp(ctx context.Context, cfg *config.ManifestConfig, fsys fs.FS, logger *zap.Logger) (*App, error) {
	app := &App{
		ctx:    ctx,
		cfg:    cfg,
		log:    logger,
		engine: game.New(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight),
		boot:   make(map[string]resource.Resource),
	}
	app.engine.SetDT(1.0 / float64(cfg.Display.Framerate))

	manifest, reg, err := system.BuildManifest(cfg, app.catalog(), fsys)
	if err != nil {
		return nil, err
	}
	app.resources = reg
	for _, r := range manifest.LoadingSceneResources {
		app.boot[r.Key()] = r
	}

	app.router, err = router.New(manifest, app.engine,
		router.WithLogger(logger.Named("router")),
		router.WithResources(reg),
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) catalog() system.Catalog {
	return system.Catalog{
		"menu":    func() scene.Scene { return &menuScene{app: a} },
		"loading": func() scene.Scene { return &loadingScene{app: a} },
		"level":   func() scene.Scene { return &levelScene{app: a} },
	}
}

// Navigate starts a navigation in the background with a fresh transition.
// Requests made while another navigation runs are dropped.
func (a *App) Navigate(name string, data any) {
	if a.router.Busy() {
		return
	}

	tr, err := system.NewTransition(a.cfg.Transition)
	if err != nil {
		a.log.Error("failed to build transition", zap.Error(err))
		return
	}

	go func() {
		_, err := a.router.GoToScene(a.ctx, name, router.Options{
			Data:       data,
			Transition: tr,
			OnActivate: func(s scene.Scene) {
				a.log.Info("scene activated", zap.String("scene", name))
			},
		})
		if err != nil {
			a.log.Warn("navigation failed", zap.String("scene", name), zap.Error(err))
		}
	}()
}

func (a *App) screenSize() (int, int) {
	return a.cfg.Display.ScreenWidth, a.cfg.Display.ScreenHeight
}

// text returns the contents of a loaded file resource
func (a *App) text(key string) (string, bool) {
	r, ok := a.resources.Get(key)
	if !ok {
		return "", false
	}
	return fileText(r)
}

// bootText returns the contents of a loaded loading scene resource
func (a *App) bootText(key string) (string, bool) {
	r, ok := a.boot[key]
	if !ok {
		return "", false
	}
	return fileText(r)
}

func fileText(r resource.Resource) (string, bool) {
	f, ok := r.(*resource.File)
	if !ok || !f.IsLoaded() {
		return "", false
	}
	return string(f.Bytes()), true
}

func (a *App) image(key string) (*ebiten.Image, bool) {
	r, ok := a.resources.Get(key)
	if !ok {
		return nil, false
	}
	img, ok := r.(*resource.Image)
	if !ok || !img.IsLoaded() {
		return nil, false
	}
	return img.Image(), true
}

func main() {
	configDir := flag.String("config", "", "Load configs from this directory instead of the embedded ones")
	manifestName := flag.String("manifest", "manifest.yaml", "Manifest file inside the config directory (.yaml, .json or .toml)")
	flag.Parse()

	var loader *config.Loader
	if *configDir != "" {
		loader = config.NewLoader(*configDir)
	} else {
		fsys, err := fs.Sub(configFS, "configs")
		if err != nil {
			log.Fatalf("Failed to get config subfs: %v", err)
		}
		loader = config.NewFSLoader(fsys, "configs")
	}

	cfg, err := loader.LoadManifest(*manifestName)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := NewApp(ctx, cfg, loader.FS(), logger)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	go func() {
		if err := app.router.Start(ctx); err != nil {
			logger.Error("boot failed", zap.Error(err))
		}
	}()

	ebiten.SetWindowSize(cfg.Display.ScreenWidth*cfg.Display.Scale, cfg.Display.ScreenHeight*cfg.Display.Scale)
	ebiten.SetWindowTitle(cfg.Display.Title)
	ebiten.SetTPS(cfg.Display.Framerate)

	if err := ebiten.RunGame(app.engine); err != nil {
		logger.Fatal("game exited", zap.Error(err))
	}
}
