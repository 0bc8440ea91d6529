package settings

// State is the lifecycle of fetched settings as seen by the form.
type State int

const (
	StateLoading State = iota
	StateFailed
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
