package midi

import (
	"sort"
	"sync"
	"time"

	"github.com/bep/debounce"

	"go-comping/comping"
)

// DefaultSettle is how long chord capture waits for a strum to finish
// before reporting the held set.
const DefaultSettle = 30 * time.Millisecond

// ChordCapture tracks which keys are currently held and reports the
// settled chord. Reporting is debounced so a strummed chord replans once,
// not once per finger.
type ChordCapture struct {
	mu        sync.Mutex
	held      map[uint8]bool
	debounced func(func())
	onChord   func([]comping.Note)
}

// NewChordCapture creates a capture that calls onChord with the held
// notes (ascending) each time the set settles. An empty set means all
// keys were released.
func NewChordCapture(settle time.Duration, onChord func([]comping.Note)) *ChordCapture {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &ChordCapture{
		held:      make(map[uint8]bool),
		debounced: debounce.New(settle),
		onChord:   onChord,
	}
}

// Handle consumes one keyboard event.
func (c *ChordCapture) Handle(evt NoteEvent) {
	c.mu.Lock()
	if evt.On {
		c.held[evt.Note] = true
	} else {
		delete(c.held, evt.Note)
	}
	c.mu.Unlock()
	c.debounced(c.emit)
}

// Held returns the currently held notes, ascending.
func (c *ChordCapture) Held() []comping.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ChordCapture) emit() {
	c.mu.Lock()
	notes := c.snapshotLocked()
	c.mu.Unlock()
	c.onChord(notes)
}

func (c *ChordCapture) snapshotLocked() []comping.Note {
	notes := make([]comping.Note, 0, len(c.held))
	for n := range c.held {
		notes = append(notes, comping.Note(n))
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}
