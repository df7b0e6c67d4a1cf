package widgets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAccidental(t *testing.T) {
	assert := assert.New(t)

	assert.False(IsAccidental(60)) // C4
	assert.True(IsAccidental(61))  // C#4
	assert.False(IsAccidental(64)) // E4
	assert.True(IsAccidental(70))  // A#4
	assert.True(IsAccidental(-2))  // A#-2
}

func TestNoteName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("C4", NoteName(60))
	assert.Equal("C#4", NoteName(61))
	assert.Equal("A4", NoteName(69))
	assert.Equal("B3", NoteName(59))
	assert.Equal("C-1", NoteName(0))
}

func TestRenderKeyboardShape(t *testing.T) {
	assert := assert.New(t)

	out := RenderKeyboard(60, 72, nil, [3]uint8{255, 0, 0}, [3]uint8{200, 200, 200}, [3]uint8{80, 80, 80})
	lines := strings.Split(out, "\n")
	if assert.Len(lines, 3) {
		assert.Contains(lines[2], "C4")
		assert.Contains(lines[2], "C5")
	}
}

func TestRenderKeyboardSnapsToNatural(t *testing.T) {
	assert := assert.New(t)

	// Starting on C#4 snaps down to C4, so both renders span the same keys.
	fromSharp := RenderKeyboard(61, 72, nil, [3]uint8{255, 0, 0}, [3]uint8{200, 200, 200}, [3]uint8{80, 80, 80})
	fromNatural := RenderKeyboard(60, 72, nil, [3]uint8{255, 0, 0}, [3]uint8{200, 200, 200}, [3]uint8{80, 80, 80})
	assert.Equal(fromNatural, fromSharp)
}
