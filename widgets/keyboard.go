package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semitones within an octave that are black keys.
var accidentalSemitone = map[int]bool{1: true, 3: true, 6: true, 8: true, 10: true}

var naturalNames = map[int]string{0: "C", 2: "D", 4: "E", 5: "F", 7: "G", 9: "A", 11: "B"}

// IsAccidental reports whether the MIDI note is a black key.
func IsAccidental(note int) bool {
	return accidentalSemitone[((note%12)+12)%12]
}

// NoteName returns a display name like "C4" (C4 = MIDI 60).
func NoteName(note int) string {
	semitone := ((note % 12) + 12) % 12
	octave := note/12 - 1
	name, ok := naturalNames[semitone]
	if !ok {
		name = naturalNames[semitone-1] + "#"
	}
	return fmt.Sprintf("%s%d", name, octave)
}

// RenderKeyboard draws a piano spanning [low, high] as three lines:
// accidentals on top, naturals below, octave labels under the C keys.
// Notes present in lit are drawn in litColor. Each natural key is a
// two-cell block followed by a one-cell gap; the accidental above sits
// over that gap, to the right of its lower natural, like on the real
// thing.
func RenderKeyboard(low, high int, lit map[int]bool, litColor, naturalColor, accidentalColor [3]uint8) string {
	for IsAccidental(low) {
		low--
	}

	naturalStyle := keyStyle(naturalColor)
	accidentalStyle := keyStyle(accidentalColor)
	litStyle := keyStyle(litColor)

	var top, bottom, labels strings.Builder
	for n := low; n <= high; n++ {
		if IsAccidental(n) {
			continue
		}

		if lit[n] {
			bottom.WriteString(litStyle.Render("██"))
		} else {
			bottom.WriteString(naturalStyle.Render("██"))
		}
		bottom.WriteString(" ")

		// Accidental over the gap right of this natural
		sharp := n + 1
		if sharp <= high && IsAccidental(sharp) {
			top.WriteString("  ")
			if lit[sharp] {
				top.WriteString(litStyle.Render("▀"))
			} else {
				top.WriteString(accidentalStyle.Render("▀"))
			}
		} else {
			top.WriteString("   ")
		}

		if ((n%12)+12)%12 == 0 {
			labels.WriteString(fmt.Sprintf("%-3s", NoteName(n)))
		} else {
			labels.WriteString("   ")
		}
	}

	return top.String() + "\n" + bottom.String() + "\n" + labels.String()
}

func keyStyle(color [3]uint8) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
