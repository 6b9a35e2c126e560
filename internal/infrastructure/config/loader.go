package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Loader loads game configuration from JSON, YAML or TOML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// FS returns the file system the loader reads from. Resource paths in the
// manifest are relative to it.
func (l *Loader) FS() fs.FS {
	return l.fsys
}

// LoadManifest loads and validates a manifest. The decoder is picked from
// the file extension.
func (l *Loader) LoadManifest(name string) (*ManifestConfig, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var cfg ManifestConfig
	if err := decode(name, data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", name, err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func decode(name string, data []byte, v any) error {
	switch ext := path.Ext(name); ext {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	case ".toml":
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func (c *ManifestConfig) applyDefaults() {
	if c.Display.ScreenWidth == 0 {
		c.Display.ScreenWidth = 320
	}
	if c.Display.ScreenHeight == 0 {
		c.Display.ScreenHeight = 240
	}
	if c.Display.Scale == 0 {
		c.Display.Scale = 2
	}
	if c.Display.Framerate == 0 {
		c.Display.Framerate = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "console"
	}
	for i := range c.LoadingSceneResources {
		if c.LoadingSceneResources[i].Kind == "" {
			c.LoadingSceneResources[i].Kind = "file"
		}
	}
	for i := range c.Resources {
		if c.Resources[i].Kind == "" {
			c.Resources[i].Kind = "file"
		}
	}
}
