package comping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmptyNotesDefaultsRoot(t *testing.T) {
	assert := assert.New(t)

	c := ExtractComponents(nil)
	assert.Equal(DefaultRoot, c.Root)
	assert.Nil(c.Third)
	assert.Nil(c.Fifth)
	assert.Nil(c.Seventh)
	assert.Empty(c.UpperNotes)
	assert.Empty(c.AllNotes)
}

func TestExtractRootIsLowestRegardlessOfOrder(t *testing.T) {
	assert := assert.New(t)

	for _, notes := range [][]Note{
		{60, 64, 67},
		{67, 60, 64},
		{64, 67, 60},
		{72, 48, 67, 64},
	} {
		c := ExtractComponents(notes)
		min := notes[0]
		for _, n := range notes {
			if n < min {
				min = n
			}
		}
		assert.Equal(min, c.Root, "notes %v", notes)
	}
}

func TestExtractCmaj7(t *testing.T) {
	assert := assert.New(t)

	c := ExtractComponents([]Note{60, 64, 67, 71})
	assert.Equal(Note(60), c.Root)
	if assert.NotNil(c.Third) {
		assert.Equal(Note(64), *c.Third)
	}
	if assert.NotNil(c.Fifth) {
		assert.Equal(Note(67), *c.Fifth)
	}
	if assert.NotNil(c.Seventh) {
		assert.Equal(Note(71), *c.Seventh)
	}
	assert.Equal([]Note{64, 67, 71}, c.UpperNotes)
	assert.Equal([]Note{60, 64, 67, 71}, c.AllNotes)
}

func TestExtractLowestCandidateWinsTies(t *testing.T) {
	assert := assert.New(t)

	// Both a minor and a major third are present: the lower note wins,
	// not the "better" interval.
	c := ExtractComponents([]Note{60, 63, 64})
	if assert.NotNil(c.Third) {
		assert.Equal(Note(63), *c.Third)
	}
}

func TestExtractFindsComponentsAcrossOctaves(t *testing.T) {
	assert := assert.New(t)

	// E5 is a major 17th above C4, still interval class 4.
	c := ExtractComponents([]Note{60, 76})
	if assert.NotNil(c.Third) {
		assert.Equal(Note(76), *c.Third)
	}
	assert.Nil(c.Fifth)
	assert.Nil(c.Seventh)
}

func TestExtractMissingComponentsAreNil(t *testing.T) {
	assert := assert.New(t)

	// Root + fifth only
	c := ExtractComponents([]Note{60, 67})
	assert.Nil(c.Third)
	if assert.NotNil(c.Fifth) {
		assert.Equal(Note(67), *c.Fifth)
	}
	assert.Nil(c.Seventh)
}
