package router

import (
	"context"

	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/transition"
	"github.com/younwookim/stagehand/internal/domain/resource"
)

// DefaultLoadingScene is used when no loading scene matches a key's depth
const DefaultLoadingScene = "_loading"

// Constructor creates a new scene instance
type Constructor func() scene.Scene

// Importer fetches a scene's constructor on demand. A nil constructor with a
// nil error means the module exposes no scene.
type Importer func(ctx context.Context) (Constructor, error)

// SceneData describes one manifest entry
type SceneData struct {
	// Scene is used when IsPreloaded is set
	Scene Constructor
	// Import is used when IsPreloaded is not set
	Import Importer

	IsPreloaded    bool
	IsLoadingScene bool
}

// SceneEntry is a keyed SceneData. Manifest order matters for loading
// scene selection.
type SceneEntry struct {
	Key  string
	Data SceneData
}

// Manifest is the static description of a game's scenes
type Manifest struct {
	BootScene string
	// Transition plays around the boot navigation only
	Transition transition.Transition
	// LoadingSceneResources are loaded with a dedicated loader before the
	// first loading scene is shown
	LoadingSceneResources []resource.Resource
	Scenes                []SceneEntry
}
