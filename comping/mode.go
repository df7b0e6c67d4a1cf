package comping

// PlaybackMode selects the comping rhythm applied to a held chord.
type PlaybackMode string

const (
	ModeBlock      PlaybackMode = "block"
	ModeRootOnly   PlaybackMode = "root-only"
	ModeShell      PlaybackMode = "shell"
	ModeVamp       PlaybackMode = "vamp"
	ModeCharleston PlaybackMode = "charleston"
	ModeStride     PlaybackMode = "stride"
	ModeTwoFeel    PlaybackMode = "two-feel"
	ModeBossa      PlaybackMode = "bossa"
	ModeTremolo    PlaybackMode = "tremolo"
	ModeCustom     PlaybackMode = "custom"
)

// Modes lists every playback mode in UI order.
var Modes = []PlaybackMode{
	ModeBlock,
	ModeRootOnly,
	ModeShell,
	ModeVamp,
	ModeCharleston,
	ModeStride,
	ModeTwoFeel,
	ModeBossa,
	ModeTremolo,
	ModeCustom,
}

// Valid reports whether m is a known playback mode.
func (m PlaybackMode) Valid() bool {
	_, ok := planFuncs[m]
	return ok
}

// ModeRequiresBPM reports whether the mode schedules hits after the
// initial strike. The immediate-only modes ignore tempo entirely.
func ModeRequiresBPM(m PlaybackMode) bool {
	switch m {
	case ModeBlock, ModeRootOnly, ModeShell:
		return false
	}
	return true
}

// CustomPattern is a user-drawn rhythm grid. Rows map to the chord's notes
// bottom-up (row 0 = root), columns are 16th-note steps from the strike.
type CustomPattern struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Rows int      `json:"rows"`
	Cols int      `json:"cols"`
	Grid [][]bool `json:"grid"`
}

// Active reports whether the cell at (row, col) is set. Out-of-bounds
// cells read as inactive, so ragged grids from hand-edited files are safe.
func (p *CustomPattern) Active(row, col int) bool {
	if p == nil || row < 0 || row >= len(p.Grid) {
		return false
	}
	if col < 0 || col >= len(p.Grid[row]) {
		return false
	}
	return p.Grid[row][col]
}

// NewCustomPattern allocates an empty rows x cols grid.
func NewCustomPattern(name string, rows, cols int) *CustomPattern {
	grid := make([][]bool, rows)
	for r := range grid {
		grid[r] = make([]bool, cols)
	}
	return &CustomPattern{Name: name, Rows: rows, Cols: cols, Grid: grid}
}
