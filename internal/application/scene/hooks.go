package scene

// Optional lifecycle hooks. The Fire* helpers call a hook only when the scene
// implements it and are safe to call with a nil scene.

// LoadStarter is notified before the router loads outstanding resources
type LoadStarter interface{ OnLoadStart() }

// LoadProgresser receives resource load progress in [0, 1]
type LoadProgresser interface{ OnLoad(progress float64) }

// LoadCompleter is notified once outstanding resources are loaded
type LoadCompleter interface{ OnLoadComplete() }

// IntroStarter is notified when the intro transition starts
type IntroStarter interface{ OnIntroStart() }

// IntroProgresser receives intro progress in [0, 1]
type IntroProgresser interface{ OnIntro(progress float64) }

// IntroCompleter is notified when the intro transition ends
type IntroCompleter interface{ OnIntroComplete() }

// OutroStarter is notified when the outro transition starts
type OutroStarter interface{ OnOutroStart() }

// OutroProgresser receives outro progress in [0, 1]
type OutroProgresser interface{ OnOutro(progress float64) }

// OutroCompleter is notified when the outro transition ends
type OutroCompleter interface{ OnOutroComplete() }

// Transitioner tracks whether a transition is playing over the scene
type Transitioner interface{ SetTransitioning(bool) }

// Namer receives the registry key the scene was created under
type Namer interface{ SetName(string) }

// FireLoadStart calls OnLoadStart when s implements LoadStarter
func FireLoadStart(s Scene) {
	if h, ok := s.(LoadStarter); ok {
		h.OnLoadStart()
	}
}

// FireLoad reports load progress to s
func FireLoad(s Scene, progress float64) {
	if h, ok := s.(LoadProgresser); ok {
		h.OnLoad(progress)
	}
}

// FireLoadComplete calls OnLoadComplete when s implements LoadCompleter
func FireLoadComplete(s Scene) {
	if h, ok := s.(LoadCompleter); ok {
		h.OnLoadComplete()
	}
}

// FireIntroStart calls OnIntroStart when s implements IntroStarter
func FireIntroStart(s Scene) {
	if h, ok := s.(IntroStarter); ok {
		h.OnIntroStart()
	}
}

// FireIntro reports intro progress to s
func FireIntro(s Scene, progress float64) {
	if h, ok := s.(IntroProgresser); ok {
		h.OnIntro(progress)
	}
}

// FireIntroComplete calls OnIntroComplete when s implements IntroCompleter
func FireIntroComplete(s Scene) {
	if h, ok := s.(IntroCompleter); ok {
		h.OnIntroComplete()
	}
}

// FireOutroStart calls OnOutroStart when s implements OutroStarter
func FireOutroStart(s Scene) {
	if h, ok := s.(OutroStarter); ok {
		h.OnOutroStart()
	}
}

// FireOutro reports outro progress to s
func FireOutro(s Scene, progress float64) {
	if h, ok := s.(OutroProgresser); ok {
		h.OnOutro(progress)
	}
}

// FireOutroComplete calls OnOutroComplete when s implements OutroCompleter
func FireOutroComplete(s Scene) {
	if h, ok := s.(OutroCompleter); ok {
		h.OnOutroComplete()
	}
}

// SetTransitioning sets the transitioning flag on scenes that track it
func SetTransitioning(s Scene, v bool) {
	if h, ok := s.(Transitioner); ok {
		h.SetTransitioning(v)
	}
}

// SetName tags a scene with its registry key when it accepts one
func SetName(s Scene, name string) {
	if h, ok := s.(Namer); ok {
		h.SetName(name)
	}
}
