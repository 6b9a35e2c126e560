package config

import (
	"errors"
	"fmt"
)

// ErrInvalidManifest is returned by Validate
var ErrInvalidManifest = errors.New("invalid manifest")

// ManifestConfig is the root config for manifest files
type ManifestConfig struct {
	Display               DisplayConfig     `json:"display" yaml:"display" toml:"display"`
	Logging               LoggingConfig     `json:"logging" yaml:"logging" toml:"logging"`
	BootScene             string            `json:"bootScene" yaml:"bootScene" toml:"bootScene"`
	Transition            *TransitionConfig `json:"transition,omitempty" yaml:"transition,omitempty" toml:"transition,omitempty"`
	LoadingSceneResources []ResourceConfig  `json:"loadingSceneResources" yaml:"loadingSceneResources" toml:"loadingSceneResources"`
	Resources             []ResourceConfig  `json:"resources" yaml:"resources" toml:"resources"`
	Scenes                []SceneConfig     `json:"scenes" yaml:"scenes" toml:"scenes"`
}

// DisplayConfig sizes the window and sets the tick rate
type DisplayConfig struct {
	ScreenWidth  int    `json:"screenWidth" yaml:"screenWidth" toml:"screenWidth"`
	ScreenHeight int    `json:"screenHeight" yaml:"screenHeight" toml:"screenHeight"`
	Scale        int    `json:"scale" yaml:"scale" toml:"scale"`
	Framerate    int    `json:"framerate" yaml:"framerate" toml:"framerate"`
	Title        string `json:"title" yaml:"title" toml:"title"`
}

// LoggingConfig selects the logger level and encoding
type LoggingConfig struct {
	Level    string `json:"level" yaml:"level" toml:"level"`          // debug, info, warn, error
	Encoding string `json:"encoding" yaml:"encoding" toml:"encoding"` // json or console
}

// TransitionConfig describes the transition played around the boot navigation
type TransitionConfig struct {
	Type     string  `json:"type" yaml:"type" toml:"type"`             // fade or none
	Duration float64 `json:"duration" yaml:"duration" toml:"duration"` // seconds per phase
	Color    string  `json:"color" yaml:"color" toml:"color"`          // #rrggbb
	// LoadingAlpha is the overlay opacity while a loading scene is shown.
	// Unset keeps the loading scene hidden.
	LoadingAlpha *float64 `json:"loadingAlpha,omitempty" yaml:"loadingAlpha,omitempty" toml:"loadingAlpha,omitempty"`
}

// ResourceConfig declares one resource. Path is relative to the config directory.
type ResourceConfig struct {
	Key    string `json:"key" yaml:"key" toml:"key"`
	Path   string `json:"path" yaml:"path" toml:"path"`
	Kind   string `json:"kind" yaml:"kind" toml:"kind"`                                        // file or image
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty" toml:"digest,omitempty"` // xxhash64, hex
}

// SceneConfig declares one manifest scene. Order matters for loading scene selection.
type SceneConfig struct {
	Key       string `json:"key" yaml:"key" toml:"key"`
	Type      string `json:"type" yaml:"type" toml:"type"` // catalog entry that builds the scene
	Preloaded bool   `json:"preloaded" yaml:"preloaded" toml:"preloaded"`
	Loading   bool   `json:"loading" yaml:"loading" toml:"loading"`
}

// Validate checks scene keys are unique and the boot scene is declared
func (c *ManifestConfig) Validate() error {
	if c.BootScene == "" {
		return fmt.Errorf("%w: bootScene is empty", ErrInvalidManifest)
	}

	seen := make(map[string]struct{}, len(c.Scenes))
	for i, s := range c.Scenes {
		if s.Key == "" {
			return fmt.Errorf("%w: scene %d has no key", ErrInvalidManifest, i)
		}
		if _, ok := seen[s.Key]; ok {
			return fmt.Errorf("%w: duplicate scene %q", ErrInvalidManifest, s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	if _, ok := seen[c.BootScene]; !ok {
		return fmt.Errorf("%w: bootScene %q is not declared", ErrInvalidManifest, c.BootScene)
	}

	keys := make(map[string]struct{})
	for _, r := range append(append([]ResourceConfig(nil), c.LoadingSceneResources...), c.Resources...) {
		if r.Key == "" || r.Path == "" {
			return fmt.Errorf("%w: resource needs key and path", ErrInvalidManifest)
		}
		if _, ok := keys[r.Key]; ok {
			return fmt.Errorf("%w: duplicate resource %q", ErrInvalidManifest, r.Key)
		}
		keys[r.Key] = struct{}{}
	}
	return nil
}
