package comping

import "sort"

// Note is a MIDI-style pitch number. The core does its math on plain ints
// so octave transposition stays well defined near the edges; the midi
// layer clamps to the 0-127 wire range on output.
type Note int

// DefaultRoot stands in when a chord analysis is asked for an empty note set.
const DefaultRoot Note = 60

// ChordComponents is the interval breakdown of a voiced chord.
// Root is always the lowest note. The quality pointers are nil when the
// voicing has no note filling that role.
type ChordComponents struct {
	Root       Note
	Third      *Note
	Fifth      *Note
	Seventh    *Note
	UpperNotes []Note // everything above the root, ascending
	AllNotes   []Note // full voicing, ascending
}

// Accepted semitone intervals above the root for each chord role.
// Minor/major thirds, altered and perfect fifths, minor/major sevenths.
var (
	thirdIntervals   = map[int]bool{3: true, 4: true}
	fifthIntervals   = map[int]bool{6: true, 7: true, 8: true}
	seventhIntervals = map[int]bool{10: true, 11: true}
)

// ExtractComponents derives root/3rd/5th/7th/upper notes from an arbitrary
// voicing. Notes are scanned bottom-up, so when two candidates share an
// interval class the lower one wins.
func ExtractComponents(notes []Note) ChordComponents {
	if len(notes) == 0 {
		return ChordComponents{Root: DefaultRoot}
	}

	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	root := sorted[0]
	upper := sorted[1:]

	return ChordComponents{
		Root:       root,
		Third:      firstWithInterval(upper, root, thirdIntervals),
		Fifth:      firstWithInterval(upper, root, fifthIntervals),
		Seventh:    firstWithInterval(upper, root, seventhIntervals),
		UpperNotes: append([]Note(nil), upper...),
		AllNotes:   sorted,
	}
}

func firstWithInterval(notes []Note, root Note, accepted map[int]bool) *Note {
	for _, n := range notes {
		iv := int(n-root) % 12
		if iv < 0 {
			iv += 12
		}
		if accepted[iv] {
			match := n
			return &match
		}
	}
	return nil
}
