package comping

import "sync"

// DisplaySync mirrors the planner's schedule into the note-highlight set
// the UI shows. It owns its own timers, separate from the audio path, so
// cancelling a chord's display updates never touches in-flight audio
// callbacks. A generation token guards against timer callbacks that
// belong to a chord the player has already moved off of: the timers are
// cleared on every chord change AND each callback re-checks the token, so
// a straggler that fires anyway cannot paint stale notes.
type DisplaySync struct {
	mu     sync.Mutex
	seq    uint64 // chord generation
	active []Note

	timers  *HumanizeManager
	planner *Planner

	// UpdateChan gets a non-blocking signal whenever the highlight set
	// changes.
	UpdateChan chan struct{}
}

// NewDisplaySync creates a synchronizer with its own timer queue.
func NewDisplaySync() *DisplaySync {
	return &DisplaySync{
		timers:     NewHumanizeManager(),
		planner:    &Planner{},
		UpdateChan: make(chan struct{}, 1),
	}
}

// SetPattern attaches the custom grid consulted when the mode is
// ModeCustom.
func (d *DisplaySync) SetPattern(p *CustomPattern) {
	d.mu.Lock()
	d.planner.Pattern = p
	d.mu.Unlock()
}

// ActiveNotes returns a copy of the currently lit notes.
func (d *DisplaySync) ActiveNotes() []Note {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Note(nil), d.active...)
}

// SetChord replays the schedule for a newly held chord. A nil or empty
// chord clears the display. Updates still pending for the previous chord
// are cancelled first.
func (d *DisplaySync) SetChord(notes []Note, mode PlaybackMode, bpm float64) {
	d.mu.Lock()
	d.seq++
	gen := d.seq
	d.mu.Unlock()
	d.timers.Clear()

	if len(notes) == 0 {
		d.setActive(gen, nil)
		return
	}

	if mode == ModeBlock {
		d.setActive(gen, append([]Note(nil), notes...))
		return
	}

	d.mu.Lock()
	result := d.planner.Plan(notes, mode, bpm)
	d.mu.Unlock()

	d.setActive(gen, append([]Note(nil), result.SustainedNotes...))
	if !ModeRequiresBPM(mode) {
		return
	}

	for _, group := range result.ScheduledGroups {
		group := group
		d.timers.Schedule(func() { d.applyGroup(gen, group) }, group.Delay)
	}
}

// Close tears the synchronizer down; pending display timers are dropped.
func (d *DisplaySync) Close() {
	d.timers.Clear()
	d.timers.Close()
}

func (d *DisplaySync) setActive(gen uint64, notes []Note) {
	d.mu.Lock()
	if gen != d.seq {
		d.mu.Unlock()
		return
	}
	d.active = notes
	d.mu.Unlock()
	d.notify()
}

func (d *DisplaySync) applyGroup(gen uint64, group ScheduledNoteGroup) {
	d.mu.Lock()
	if gen != d.seq {
		// Stale callback from a superseded chord.
		d.mu.Unlock()
		return
	}
	if group.Retrigger {
		d.active = append([]Note(nil), group.Notes...)
	} else {
		d.active = unionNotes(d.active, group.Notes)
	}
	d.mu.Unlock()
	d.notify()
}

func (d *DisplaySync) notify() {
	select {
	case d.UpdateChan <- struct{}{}:
	default:
	}
}

// unionNotes appends the notes missing from have, preserving order.
func unionNotes(have, add []Note) []Note {
	out := append([]Note(nil), have...)
	seen := make(map[Note]bool, len(have))
	for _, n := range have {
		seen[n] = true
	}
	for _, n := range add {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
