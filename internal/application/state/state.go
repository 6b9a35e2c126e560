package state

// NavState is the step a navigation is currently in
type NavState int32

const (
	StateIdle NavState = iota
	StateOutro
	StateLoading
	StateResolvingData
	StatePreloading
	StateActivating
	StateIntro
)

// String returns the string representation of the navigation state
func (s NavState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateOutro:
		return "Outro"
	case StateLoading:
		return "Loading"
	case StateResolvingData:
		return "ResolvingData"
	case StatePreloading:
		return "Preloading"
	case StateActivating:
		return "Activating"
	case StateIntro:
		return "Intro"
	default:
		return "Unknown"
	}
}
