package comping

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordSender captures note events for assertions.
type recordSender struct {
	mu  sync.Mutex
	on  []Note
	off []Note
}

func (r *recordSender) NoteOn(n Note, _ uint8) {
	r.mu.Lock()
	r.on = append(r.on, n)
	r.mu.Unlock()
}

func (r *recordSender) NoteOff(n Note) {
	r.mu.Lock()
	r.off = append(r.off, n)
	r.mu.Unlock()
}

func (r *recordSender) ons() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.on...)
}

func (r *recordSender) offs() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.off...)
}

// withFreshState swaps in a clean global state for the test.
func withFreshState(t *testing.T) {
	t.Helper()
	prev := S
	S = NewState()
	t.Cleanup(func() { S = prev })
}

func newTestManager(t *testing.T) (*Manager, *recordSender) {
	t.Helper()
	withFreshState(t)
	sender := &recordSender{}
	m := NewManager(sender)
	t.Cleanup(m.Close)
	return m, sender
}

func TestPlayChordBlockSoundsImmediately(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.PlayChord([]Note{60, 64, 67})
	assert.Equal([]Note{60, 64, 67}, sender.ons())
	assert.Empty(sender.offs())
}

func TestPlayChordEmptyReleases(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.PlayChord([]Note{60, 64})
	m.PlayChord(nil)
	assert.ElementsMatch([]Note{60, 64}, sender.offs())
	assert.Empty(m.Display().ActiveNotes())
}

func TestPlayChordReleasesPreviousChord(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.PlayChord([]Note{60, 64})
	m.PlayChord([]Note{62, 65})
	assert.ElementsMatch([]Note{60, 64}, sender.offs())
	assert.Equal([]Note{60, 64, 62, 65}, sender.ons())
}

func TestPlayChordSchedulesGroups(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.SetMode(ModeVamp)
	m.SetTempo(300) // beat = 200ms

	m.PlayChord([]Note{60, 64, 67})
	assert.Equal([]Note{60}, sender.ons())

	time.Sleep(400 * time.Millisecond)
	assert.Equal([]Note{60, 64, 67}, sender.ons())
}

func TestPlayChordChangeCancelsScheduledGroups(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.SetMode(ModeVamp)
	m.SetTempo(20) // beat = 3s, the upper hit is far out

	m.PlayChord([]Note{60, 64, 67})
	m.SetMode(ModeBlock)
	m.PlayChord([]Note{62, 65, 69})

	time.Sleep(100 * time.Millisecond)
	// Only the vamp root and the second chord; the vamp's upper hit was
	// cancelled.
	assert.Equal([]Note{60, 62, 65, 69}, sender.ons())
}

func TestReleaseSilencesAndCancels(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.SetMode(ModeCharleston)
	m.SetTempo(20)

	m.PlayChord([]Note{60, 64, 67})
	m.Release()

	assert.ElementsMatch([]Note{60, 64, 67}, sender.offs())
	time.Sleep(100 * time.Millisecond)
	assert.Len(sender.ons(), 3)
	assert.Empty(m.Display().ActiveNotes())
}

func TestSetModeRejectsUnknown(t *testing.T) {
	assert := assert.New(t)
	m, _ := newTestManager(t)

	m.SetMode(ModeStride)
	m.SetMode(PlaybackMode("wobble"))

	mode, _, _ := m.GetState()
	assert.Equal(ModeStride, mode)
}

func TestSetTempoClamps(t *testing.T) {
	assert := assert.New(t)
	m, _ := newTestManager(t)

	m.SetTempo(5)
	_, tempo, _ := m.GetState()
	assert.Equal(20, tempo)

	m.SetTempo(900)
	_, tempo, _ = m.GetState()
	assert.Equal(300, tempo)

	m.SetTempo(140)
	_, tempo, _ = m.GetState()
	assert.Equal(140, tempo)
}

func TestSetHumanizeClamps(t *testing.T) {
	assert := assert.New(t)
	m, _ := newTestManager(t)

	m.SetHumanize(-10)
	_, _, humanize := m.GetState()
	assert.Zero(humanize)

	m.SetHumanize(250)
	_, _, humanize = m.GetState()
	assert.Equal(100, humanize)
}

func TestHumanizedStrikeEventuallySoundsEveryNote(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.SetHumanize(100)
	m.PlayChord([]Note{60, 64, 67, 71})

	// Jitter tops out at MaxHumanizeDelay.
	time.Sleep(MaxHumanizeDelay + 100*time.Millisecond)
	assert.ElementsMatch([]Note{60, 64, 67, 71}, sender.ons())
}

func TestSetPatternFlowsToDisplay(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	p := NewCustomPattern("test", 2, 4)
	p.ID = "p1"
	p.Grid[0][0] = true
	m.SetPattern(p)
	assert.Equal("p1", S.PatternID)

	m.SetMode(ModeCustom)
	m.PlayChord([]Note{60, 64})

	assert.Equal([]Note{60}, sender.ons())
	assert.Equal([]Note{60}, m.Display().ActiveNotes())
}

func TestRetriggerGroupReleasesBeforeRestriking(t *testing.T) {
	assert := assert.New(t)
	m, sender := newTestManager(t)

	m.SetMode(ModeTremolo)
	m.SetTempo(300) // 16ths at 50ms

	m.PlayChord([]Note{60, 64})
	time.Sleep(300 * time.Millisecond)

	// Initial strike plus three retriggers, each preceded by a release.
	assert.Len(sender.ons(), 8)
	assert.Len(sender.offs(), 6)
}
