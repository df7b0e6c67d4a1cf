package comping

import (
	"math/rand"
	"time"
)

// MaxHumanizeDelay bounds the onset jitter at humanize 100%.
const MaxHumanizeDelay = 150 * time.Millisecond

// OffsetGenerator draws per-note onset jitter. Two uniform draws are
// averaged per note, so offsets cluster around the midpoint of the range
// rather than its extremes.
type OffsetGenerator struct {
	randFloat func() float64
}

// NewOffsetGenerator seeds a generator from the wall clock.
func NewOffsetGenerator() *OffsetGenerator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &OffsetGenerator{randFloat: rng.Float64}
}

// NewOffsetGeneratorFrom builds a generator over the given uniform [0,1)
// source. Tests pass a deterministic sequence here.
func NewOffsetGeneratorFrom(randFloat func() float64) *OffsetGenerator {
	return &OffsetGenerator{randFloat: randFloat}
}

// Offsets returns one timing offset per note. A single note, or amount 0,
// gets no jitter. Amount is a percentage and is deliberately not clamped:
// values outside 0-100 extrapolate, negative amounts give negative
// offsets.
func (g *OffsetGenerator) Offsets(count, amount int) []time.Duration {
	offsets := make([]time.Duration, count)
	if count <= 1 || amount == 0 {
		return offsets
	}
	scale := float64(amount) / 100
	for i := range offsets {
		r := (g.randFloat() + g.randFloat()) / 2
		offsets[i] = time.Duration(r * scale * float64(MaxHumanizeDelay))
	}
	return offsets
}
