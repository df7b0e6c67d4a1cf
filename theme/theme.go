package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Piano keyboard widget
	KeyNatural    rune // natural key cell
	KeyAccidental rune // accidental key cell
	KeyLit        rune // highlighted key

	// Mode picker
	ModeActive rune // ● selected mode
	ModeIdle   rune // ○ unselected mode
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			KeyNatural:    '█',
			KeyAccidental: '▀',
			KeyLit:        '█',

			ModeActive: '●',
			ModeIdle:   '○',
		},
	}
}

// Default builds a theme over the built-in palette.
func Default() *Theme {
	return New(DefaultPalette())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG        = 0.0 // near-black blue
	RoleSurface   = 0.1
	RoleMuted     = 0.25
	RoleFG        = 0.45
	RoleAccent    = 0.6  // header + selected mode
	RoleScheduled = 0.75 // notes lit by a delayed group
	RoleSustained = 0.9  // notes lit since the strike
	RoleWarning   = 1.0
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Sustained() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSustained))
}

func (t *Theme) Scheduled() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleScheduled))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
