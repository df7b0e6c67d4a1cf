package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-comping/comping"
	"go-comping/midi"
	"go-comping/pattern"
	"go-comping/theme"
	"go-comping/widgets"
)

// Keyboard range shown on screen
const (
	viewLow  = 48 // C3
	viewHigh = 84 // C6
)

type Model struct {
	Manager   *comping.Manager
	DeviceMgr *midi.DeviceManager
	Capture   *midi.ChordCapture
	Store     *pattern.Store
	Theme     *theme.Theme

	patterns   []*comping.CustomPattern
	patternIdx int

	qwertyHeld map[comping.Note]bool
	deviceName string
	quitting   bool
}

type UpdateMsg struct{}

type DisplayMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(manager *comping.Manager, deviceMgr *midi.DeviceManager, capture *midi.ChordCapture, store *pattern.Store, th *theme.Theme) Model {
	m := Model{
		Manager:    manager,
		DeviceMgr:  deviceMgr,
		Capture:    capture,
		Store:      store,
		Theme:      th,
		qwertyHeld: make(map[comping.Note]bool),
	}
	if store != nil {
		m.patterns = store.List()
	}
	return m
}

func ListenForUpdates(manager *comping.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDisplay(display *comping.DisplaySync) tea.Cmd {
	return func() tea.Msg {
		<-display.UpdateChan
		return DisplayMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		ListenForUpdates(m.Manager),
		ListenForDisplay(m.Manager.Display()),
	}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

// qwertyNotes maps the home row (plus q-row accidentals) onto a piano
// starting at C4, so the instrument is playable without a MIDI keyboard.
var qwertyNotes = map[string]comping.Note{
	"a": 60, "w": 61, "s": 62, "e": 63, "d": 64,
	"f": 65, "t": 66, "g": 67, "y": 68, "h": 69,
	"u": 70, "j": 71, "k": 72, "o": 73, "l": 74,
	"p": 75,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DisplayMsg:
		return m, ListenForDisplay(m.Manager.Display())

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.deviceName = event.ID
			if m.Capture != nil {
				// Forward keyboard events into chord capture
				go func(ctrl *midi.KeyboardController) {
					for evt := range ctrl.NoteEvents() {
						m.Capture.Handle(evt)
					}
				}(event.Controller)
			}
		} else if event.Type == midi.DeviceDisconnected && m.deviceName == event.ID {
			m.deviceName = ""
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.Manager.Release()
		return m, tea.Quit

	case " ":
		m.qwertyHeld = make(map[comping.Note]bool)
		m.Manager.Release()

	case "+", "=":
		_, tempo, _ := m.Manager.GetState()
		m.Manager.SetTempo(tempo + 5)

	case "-", "_":
		_, tempo, _ := m.Manager.GetState()
		m.Manager.SetTempo(tempo - 5)

	case "]":
		_, _, humanize := m.Manager.GetState()
		m.Manager.SetHumanize(humanize + 5)

	case "[":
		_, _, humanize := m.Manager.GetState()
		m.Manager.SetHumanize(humanize - 5)

	case "tab":
		m.cyclePattern()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(comping.Modes) {
			m.Manager.SetMode(comping.Modes[idx])
			m.replay()
		}

	case "0":
		m.Manager.SetMode(comping.ModeCustom)
		if len(m.patterns) > 0 {
			m.Manager.SetPattern(m.patterns[m.patternIdx])
		}
		m.replay()

	default:
		if note, ok := qwertyNotes[key]; ok {
			if m.qwertyHeld[note] {
				delete(m.qwertyHeld, note)
			} else {
				m.qwertyHeld[note] = true
			}
			m.replay()
		}
	}
	return m, nil
}

// replay restrikes the qwerty chord with the current settings.
func (m Model) replay() {
	notes := make([]comping.Note, 0, len(m.qwertyHeld))
	for n := range m.qwertyHeld {
		notes = append(notes, n)
	}
	m.Manager.PlayChord(notes)
}

func (m *Model) cyclePattern() {
	if len(m.patterns) == 0 {
		return
	}
	m.patternIdx = (m.patternIdx + 1) % len(m.patterns)
	m.Manager.SetPattern(m.patterns[m.patternIdx])
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	mode, tempo, humanize := m.Manager.GetState()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	device := m.deviceName
	if device == "" {
		device = "qwerty only"
	}
	patternName := "-"
	if len(m.patterns) > 0 {
		patternName = m.patterns[m.patternIdx].Name
	}

	var out strings.Builder
	out.WriteString(headerStyle.Render("go-comping"))
	out.WriteString(dimStyle.Render(fmt.Sprintf("   %d bpm   humanize %d%%   in: %s", tempo, humanize, device)))
	out.WriteString("\n\n")

	// Mode picker
	var modes []string
	for i, pm := range comping.Modes {
		label := fmt.Sprintf("%d:%s", (i+1)%10, pm)
		if pm == mode {
			modes = append(modes, headerStyle.Render(string(m.Theme.Symbols.ModeActive)+label))
		} else {
			modes = append(modes, dimStyle.Render(string(m.Theme.Symbols.ModeIdle)+label))
		}
	}
	out.WriteString(strings.Join(modes, "  "))
	if mode == comping.ModeCustom {
		out.WriteString(dimStyle.Render(fmt.Sprintf("   pattern: %s (tab cycles)", patternName)))
	}
	out.WriteString("\n\n")

	// Keyboard with the highlight set from the display synchronizer
	lit := make(map[int]bool)
	for _, n := range m.Manager.Display().ActiveNotes() {
		lit[int(n)] = true
	}
	out.WriteString(widgets.RenderKeyboard(
		viewLow, viewHigh, lit,
		m.Theme.RGB(theme.RoleSustained),
		m.Theme.RGB(theme.RoleFG),
		m.Theme.RGB(theme.RoleMuted),
	))
	out.WriteString("\n\n")

	out.WriteString(fgStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Title: "Keys", Keys: []widgets.KeyBinding{
			{Key: "a s d f ...", Desc: "toggle notes (home row = naturals from C4)"},
			{Key: "space", Desc: "release"},
			{Key: "1-9, 0", Desc: "playback mode"},
			{Key: "+ / -", Desc: "tempo"},
			{Key: "[ / ]", Desc: "humanize"},
			{Key: "q", Desc: "quit"},
		}},
	})))
	out.WriteString("\n")

	return out.String()
}
