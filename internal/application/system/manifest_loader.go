package system

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"strconv"
	"strings"

	"github.com/younwookim/stagehand/internal/application/router"
	"github.com/younwookim/stagehand/internal/application/transition"
	"github.com/younwookim/stagehand/internal/domain/resource"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
)

// ErrUnknownSceneType is returned when a preloaded scene names a type that
// is missing from the catalog
var ErrUnknownSceneType = errors.New("unknown scene type")

// Catalog maps scene types used in manifest files to their constructors
type Catalog map[string]router.Constructor

// BuildManifest converts a ManifestConfig into a router manifest and the
// registry of scene resources. Resource paths are resolved against fsys.
func BuildManifest(cfg *config.ManifestConfig, catalog Catalog, fsys fs.FS) (*router.Manifest, *resource.Registry, error) {
	tr, err := NewTransition(cfg.Transition)
	if err != nil {
		return nil, nil, err
	}

	loading, err := buildResources(cfg.LoadingSceneResources, fsys)
	if err != nil {
		return nil, nil, err
	}

	declared, err := buildResources(cfg.Resources, fsys)
	if err != nil {
		return nil, nil, err
	}
	reg := resource.NewRegistry()
	if err := reg.Add(declared...); err != nil {
		return nil, nil, err
	}

	scenes := make([]router.SceneEntry, 0, len(cfg.Scenes))
	for _, sc := range cfg.Scenes {
		data := router.SceneData{
			IsPreloaded:    sc.Preloaded,
			IsLoadingScene: sc.Loading,
		}
		if sc.Preloaded {
			ctor, ok := catalog[sc.Type]
			if !ok {
				return nil, nil, fmt.Errorf("%w %q for scene %q", ErrUnknownSceneType, sc.Type, sc.Key)
			}
			data.Scene = ctor
		} else {
			data.Import = importer(catalog, sc.Type)
		}
		scenes = append(scenes, router.SceneEntry{Key: sc.Key, Data: data})
	}

	return &router.Manifest{
		BootScene:             cfg.BootScene,
		Transition:            tr,
		LoadingSceneResources: loading,
		Scenes:                scenes,
	}, reg, nil
}

// importer defers the catalog lookup to navigation time. A missing type
// yields a nil constructor, which the router reports as a missing export.
func importer(catalog Catalog, typ string) router.Importer {
	return func(ctx context.Context) (router.Constructor, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return catalog[typ], nil
	}
}

func buildResources(cfgs []config.ResourceConfig, fsys fs.FS) ([]resource.Resource, error) {
	out := make([]resource.Resource, 0, len(cfgs))
	for _, rc := range cfgs {
		var digest uint64
		if rc.Digest != "" {
			d, err := strconv.ParseUint(rc.Digest, 16, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse digest of %q: %w", rc.Key, err)
			}
			digest = d
		}

		switch rc.Kind {
		case "", "file":
			out = append(out, resource.NewFile(rc.Key, fsys, rc.Path, digest))
		case "image":
			out = append(out, resource.NewImage(rc.Key, fsys, rc.Path, digest))
		default:
			return nil, fmt.Errorf("resource %q: unknown kind %q", rc.Key, rc.Kind)
		}
	}
	return out, nil
}

// NewTransition builds a fresh transition from cfg. A nil cfg or type
// "none" yields no transition.
func NewTransition(cfg *config.TransitionConfig) (transition.Transition, error) {
	if cfg == nil {
		return nil, nil
	}

	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "fade":
		c := color.RGBA{A: 0xff}
		if cfg.Color != "" {
			var err error
			if c, err = ParseColor(cfg.Color); err != nil {
				return nil, err
			}
		}
		var opts []transition.FadeOption
		if cfg.LoadingAlpha != nil {
			opts = append(opts, transition.WithLoadingAlpha(*cfg.LoadingAlpha))
		}
		return transition.NewFade(cfg.Duration, c, opts...), nil
	default:
		return nil, fmt.Errorf("unknown transition type %q", cfg.Type)
	}
}

// ParseColor parses an opaque #rrggbb color
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
