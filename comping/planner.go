package comping

import "time"

// ScheduledNoteGroup is one delayed hit of a comping pattern.
// Retrigger means "replace whatever is sounding with these notes";
// otherwise the notes layer on top of the current set.
type ScheduledNoteGroup struct {
	Notes     []Note
	Delay     time.Duration
	Retrigger bool
}

// PlaybackModeResult is the declarative schedule for one chord strike:
// notes that sound immediately plus the delayed groups. It is computed
// fresh per strike and superseded entirely by the next chord change.
type PlaybackModeResult struct {
	SustainedNotes  []Note
	ScheduledGroups []ScheduledNoteGroup
}

// Planner resolves a chord + mode + tempo into a schedule. Pattern is
// only consulted for ModeCustom; the zero Planner handles every built-in
// mode.
type Planner struct {
	Pattern *CustomPattern
}

// Plan is a convenience for planning built-in modes with no pattern
// attached.
func Plan(notes []Note, mode PlaybackMode, bpm float64) PlaybackModeResult {
	var p Planner
	return p.Plan(notes, mode, bpm)
}

// Plan turns the held chord into a schedule. An empty chord plans to
// nothing for every mode. BPM is taken as-is: the planner stays
// permissive about zero/negative tempo, callers that care clamp first.
func (p *Planner) Plan(notes []Note, mode PlaybackMode, bpm float64) PlaybackModeResult {
	if len(notes) == 0 {
		return PlaybackModeResult{}
	}
	ctx := planContext{
		notes: notes,
		comps: ExtractComponents(notes),
		beat:  60000 / bpm,
	}
	fn, ok := planFuncs[mode]
	if !ok {
		fn = planBlock
	}
	return fn(p, ctx)
}

type planContext struct {
	notes []Note
	comps ChordComponents
	beat  float64 // one beat in milliseconds
}

// delay converts a fraction of a beat into a duration.
func (c planContext) delay(beats float64) time.Duration {
	return time.Duration(c.beat * beats * float64(time.Millisecond))
}

// upperOrNotes is the common fallback: the notes above the root, or the
// whole chord when the voicing is a single note.
func (c planContext) upperOrNotes() []Note {
	if len(c.comps.UpperNotes) > 0 {
		return c.comps.UpperNotes
	}
	return c.notes
}

type planFunc func(*Planner, planContext) PlaybackModeResult

var planFuncs = map[PlaybackMode]planFunc{
	ModeBlock:      planBlock,
	ModeRootOnly:   planRootOnly,
	ModeShell:      planShell,
	ModeVamp:       planVamp,
	ModeCharleston: planCharleston,
	ModeStride:     planStride,
	ModeTwoFeel:    planTwoFeel,
	ModeBossa:      planBossa,
	ModeTremolo:    planTremolo,
	ModeCustom:     planCustom,
}

func planBlock(_ *Planner, c planContext) PlaybackModeResult {
	return PlaybackModeResult{SustainedNotes: c.notes}
}

func planRootOnly(_ *Planner, c planContext) PlaybackModeResult {
	return PlaybackModeResult{SustainedNotes: []Note{c.comps.Root}}
}

// planShell plays root + 3rd + 7th. A shell voicing needs at least one
// color tone to be meaningful, so a chord with neither falls back to the
// full voicing.
func planShell(_ *Planner, c planContext) PlaybackModeResult {
	shell := []Note{c.comps.Root}
	if c.comps.Third != nil {
		shell = append(shell, *c.comps.Third)
	}
	if c.comps.Seventh != nil {
		shell = append(shell, *c.comps.Seventh)
	}
	if len(shell) < 2 {
		shell = c.notes
	}
	return PlaybackModeResult{SustainedNotes: shell}
}

// planVamp holds the root and layers the upper structure on beat 2.
func planVamp(_ *Planner, c planContext) PlaybackModeResult {
	return PlaybackModeResult{
		SustainedNotes: []Note{c.comps.Root},
		ScheduledGroups: []ScheduledNoteGroup{
			{Notes: c.comps.UpperNotes, Delay: c.delay(1)},
		},
	}
}

// planCharleston restates the full chord on the and of 2.
func planCharleston(_ *Planner, c planContext) PlaybackModeResult {
	return PlaybackModeResult{
		SustainedNotes: c.notes,
		ScheduledGroups: []ScheduledNoteGroup{
			{Notes: c.notes, Delay: c.delay(1.5), Retrigger: true},
		},
	}
}

// planStride alternates an octave-dropped bass with the upper chord,
// oom-pah style. The bass drop is floored at MIDI 24 so very low roots
// stay audible.
func planStride(_ *Planner, c planContext) PlaybackModeResult {
	bass := c.comps.Root - 12
	if bass < 24 {
		bass = 24
	}
	upper := c.comps.UpperNotes
	if len(upper) == 0 {
		upper = c.notes[1:]
	}
	return PlaybackModeResult{
		SustainedNotes: []Note{bass},
		ScheduledGroups: []ScheduledNoteGroup{
			{Notes: upper, Delay: c.delay(1)},
			{Notes: []Note{bass}, Delay: c.delay(2), Retrigger: true},
			{Notes: upper, Delay: c.delay(3)},
		},
	}
}

// planTwoFeel walks root on 1, chord on 2 and 4, fifth on 3. Everything
// retriggers so each beat speaks cleanly.
func planTwoFeel(_ *Planner, c planContext) PlaybackModeResult {
	beat3Bass := c.comps.Root
	if c.comps.Fifth != nil {
		beat3Bass = *c.comps.Fifth
	}
	hits := c.upperOrNotes()
	return PlaybackModeResult{
		SustainedNotes: []Note{c.comps.Root},
		ScheduledGroups: []ScheduledNoteGroup{
			{Notes: hits, Delay: c.delay(1), Retrigger: true},
			{Notes: []Note{beat3Bass}, Delay: c.delay(2), Retrigger: true},
			{Notes: hits, Delay: c.delay(3), Retrigger: true},
		},
	}
}

// planBossa sketches the clave: root on 1, fifth (or lowest upper note)
// on the and of 2, upper structure on 3, all layered.
func planBossa(_ *Planner, c planContext) PlaybackModeResult {
	var secondHit []Note
	if c.comps.Fifth != nil {
		secondHit = []Note{*c.comps.Fifth}
	} else if len(c.comps.UpperNotes) > 0 {
		secondHit = c.comps.UpperNotes[:1]
	}
	if len(secondHit) == 0 {
		secondHit = []Note{c.comps.Root}
	}
	return PlaybackModeResult{
		SustainedNotes: []Note{c.comps.Root},
		ScheduledGroups: []ScheduledNoteGroup{
			{Notes: secondHit, Delay: c.delay(1.5)},
			{Notes: c.upperOrNotes(), Delay: c.delay(2)},
		},
	}
}

// planTremolo restates the full chord on each 16th of the first beat.
func planTremolo(_ *Planner, c planContext) PlaybackModeResult {
	groups := make([]ScheduledNoteGroup, 0, 3)
	for i := 1; i <= 3; i++ {
		groups = append(groups, ScheduledNoteGroup{
			Notes:     c.notes,
			Delay:     c.delay(float64(i) / 4),
			Retrigger: true,
		})
	}
	return PlaybackModeResult{SustainedNotes: c.notes, ScheduledGroups: groups}
}

// planCustom translates the user grid. Row r is the chord's r-th note
// bottom-up, column c lands on the c-th 16th. Column 0 becomes the
// sustained set; each later column with any active cell becomes one
// additive group. Rows beyond the chord are ignored. With no pattern
// attached the mode degrades to block.
func planCustom(p *Planner, c planContext) PlaybackModeResult {
	if p == nil || p.Pattern == nil {
		return planBlock(p, c)
	}

	chord := c.comps.AllNotes
	cols := p.Pattern.Cols
	for _, row := range p.Pattern.Grid {
		if len(row) > cols {
			cols = len(row)
		}
	}

	var result PlaybackModeResult
	for col := 0; col < cols; col++ {
		var hits []Note
		for row := 0; row < len(chord); row++ {
			if p.Pattern.Active(row, col) {
				hits = append(hits, chord[row])
			}
		}
		if len(hits) == 0 {
			continue
		}
		if col == 0 {
			result.SustainedNotes = hits
			continue
		}
		result.ScheduledGroups = append(result.ScheduledGroups, ScheduledNoteGroup{
			Notes: hits,
			Delay: c.delay(float64(col) / 4),
		})
	}
	return result
}
