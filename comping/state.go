package comping

// S is the global performance-state singleton
var S *State

func init() {
	S = NewState()
}

// State is the single source of truth for user-facing performance
// settings. It is what gets persisted between sessions.
type State struct {
	Tempo     int          `json:"tempo"`
	Mode      PlaybackMode `json:"mode"`
	Humanize  int          `json:"humanize"`
	PatternID string       `json:"patternId,omitempty"`
}

// NewState creates a state with defaults
func NewState() *State {
	return &State{
		Tempo: 120,
		Mode:  ModeBlock,
	}
}
