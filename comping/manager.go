package comping

import (
	"sync"

	"go-comping/debug"
)

// Sender delivers note events to whatever makes sound. The midi package
// provides the real implementation; tests substitute recorders.
type Sender interface {
	NoteOn(note Note, velocity uint8)
	NoteOff(note Note)
}

// Manager drives the audio side of a performance. It plans the held
// chord, fires the immediate notes with humanize jitter, schedules the
// delayed groups on its own timer queue, and keeps the display
// synchronizer in step. Audio and display timers are separate on
// purpose: the display clears its own queue on chord change without
// reaching into the audio path.
type Manager struct {
	mu       sync.Mutex
	sender   Sender
	planner  *Planner
	offsets  *OffsetGenerator
	timers   *HumanizeManager
	display  *DisplaySync
	sounding map[Note]bool
	velocity uint8
	chordSeq uint64 // guards audio callbacks from superseded chords

	// UpdateChan notifies the TUI that something user-visible changed.
	UpdateChan chan struct{}
}

// NewManager creates a performance manager around the given sender.
func NewManager(sender Sender) *Manager {
	return &Manager{
		sender:     sender,
		planner:    &Planner{},
		offsets:    NewOffsetGenerator(),
		timers:     NewHumanizeManager(),
		display:    NewDisplaySync(),
		sounding:   make(map[Note]bool),
		velocity:   100,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Display returns the display synchronizer fed by this manager.
func (m *Manager) Display() *DisplaySync {
	return m.display
}

// PlayChord analyzes and schedules the chord under the current mode,
// tempo and humanize settings. An empty chord is a release.
func (m *Manager) PlayChord(notes []Note) {
	m.mu.Lock()
	m.chordSeq++
	gen := m.chordSeq
	mode := S.Mode
	bpm := float64(S.Tempo)
	humanize := S.Humanize
	pattern := m.planner.Pattern
	m.mu.Unlock()

	m.timers.Clear()

	if len(notes) == 0 {
		m.releaseAll()
		m.display.SetChord(nil, mode, bpm)
		m.notify()
		return
	}

	planner := Planner{Pattern: pattern}
	result := planner.Plan(notes, mode, bpm)
	debug.Log("play", "chord=%v mode=%s sustained=%d groups=%d", notes, mode, len(result.SustainedNotes), len(result.ScheduledGroups))

	m.display.SetChord(notes, mode, bpm)

	m.releaseAll()
	m.strike(gen, result.SustainedNotes, humanize)

	for _, group := range result.ScheduledGroups {
		group := group
		m.timers.Schedule(func() { m.fireGroup(gen, group, humanize) }, group.Delay)
	}
	m.notify()
}

// Release silences everything and cancels all pending hits.
func (m *Manager) Release() {
	m.mu.Lock()
	m.chordSeq++
	mode := S.Mode
	bpm := float64(S.Tempo)
	m.mu.Unlock()

	m.timers.Clear()
	m.releaseAll()
	m.display.SetChord(nil, mode, bpm)
	m.notify()
}

// Close releases all notes and stops the timer goroutines.
func (m *Manager) Close() {
	m.Release()
	m.timers.Close()
	m.display.Close()
}

// SetMode switches the playback mode. Takes effect on the next strike.
func (m *Manager) SetMode(mode PlaybackMode) {
	if !mode.Valid() {
		return
	}
	m.mu.Lock()
	S.Mode = mode
	m.mu.Unlock()
	m.notify()
}

// SetTempo sets the BPM, clamped to a playable range at this outer
// boundary. The planner itself stays permissive about raw tempo values.
func (m *Manager) SetTempo(bpm int) {
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	m.mu.Lock()
	S.Tempo = bpm
	m.mu.Unlock()
	m.notify()
}

// SetHumanize sets the jitter amount, clamped to 0-100 for the UI.
func (m *Manager) SetHumanize(amount int) {
	if amount < 0 {
		amount = 0
	}
	if amount > 100 {
		amount = 100
	}
	m.mu.Lock()
	S.Humanize = amount
	m.mu.Unlock()
	m.notify()
}

// SetPattern attaches the custom grid used by ModeCustom, on both the
// audio and display paths.
func (m *Manager) SetPattern(p *CustomPattern) {
	m.mu.Lock()
	m.planner.Pattern = p
	if p != nil {
		S.PatternID = p.ID
	} else {
		S.PatternID = ""
	}
	m.mu.Unlock()
	m.display.SetPattern(p)
	m.notify()
}

// GetState returns the current performance settings.
func (m *Manager) GetState() (mode PlaybackMode, tempo, humanize int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return S.Mode, S.Tempo, S.Humanize
}

// fireGroup plays one scheduled group, after re-checking that the chord
// it belongs to is still the held one.
func (m *Manager) fireGroup(gen uint64, group ScheduledNoteGroup, humanize int) {
	m.mu.Lock()
	stale := gen != m.chordSeq
	m.mu.Unlock()
	if stale {
		return
	}
	if group.Retrigger {
		m.releaseAll()
	}
	m.strike(gen, group.Notes, humanize)
	m.notify()
}

// strike sounds a set of simultaneous notes, spreading their onsets by
// the humanize offsets. Offsets go through the same timer queue as the
// scheduled groups, so a chord change cancels jittered onsets too.
func (m *Manager) strike(gen uint64, notes []Note, humanize int) {
	m.mu.Lock()
	offsets := m.offsets.Offsets(len(notes), humanize)
	m.mu.Unlock()
	for i, n := range notes {
		n := n
		if offsets[i] <= 0 {
			m.noteOn(gen, n)
			continue
		}
		m.timers.Schedule(func() { m.noteOn(gen, n) }, offsets[i])
	}
}

func (m *Manager) noteOn(gen uint64, n Note) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.chordSeq {
		return
	}
	if m.sender != nil {
		m.sender.NoteOn(n, m.velocity)
	}
	m.sounding[n] = true
}

func (m *Manager) releaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for n := range m.sounding {
		if m.sender != nil {
			m.sender.NoteOff(n)
		}
	}
	m.sounding = make(map[Note]bool)
}

func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
