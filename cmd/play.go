package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-comping/comping"
	"go-comping/config"
	"go-comping/midi"
	"go-comping/pattern"
	"go-comping/theme"
	"go-comping/tui"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the performance TUI",
	Long:  `Open the performance TUI (the same surface the bare command opens).`,
	Run: func(cmd *cobra.Command, args []string) {
		play()
	},
}

// buildManager wires config + pattern store + MIDI output into a
// performance manager. Shared by play and serve.
func buildManager(cfg *config.Config) (*comping.Manager, *pattern.Store) {
	comping.S.Tempo = cfg.Performance.Tempo
	if comping.S.Tempo == 0 {
		comping.S.Tempo = 120
	}
	if mode := comping.PlaybackMode(cfg.Performance.Mode); mode.Valid() {
		comping.S.Mode = mode
	}
	comping.S.Humanize = cfg.Performance.Humanize

	out := midi.NewOutputManager(cfg.Output.PortName)
	sender := &midi.TriggerSender{Out: out, Port: cfg.Output.PortName, Channel: cfg.Output.Channel}
	manager := comping.NewManager(sender)

	var store *pattern.Store
	if path, err := pattern.DefaultPath(); err == nil {
		if s, err := pattern.Open(path); err == nil {
			store = s
			if p := s.Get(cfg.Performance.PatternID); p != nil {
				manager.SetPattern(p)
			}
		}
	}
	return manager, store
}

// saveSettings writes the live performance state back into the config.
func saveSettings(cfg *config.Config, manager *comping.Manager) {
	mode, tempo, humanize := manager.GetState()
	cfg.Performance.Mode = string(mode)
	cfg.Performance.Tempo = tempo
	cfg.Performance.Humanize = humanize
	cfg.Performance.PatternID = comping.S.PatternID
	cfg.Save()
}

func play() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	manager, store := buildManager(cfg)
	defer manager.Close()

	capture := midi.NewChordCapture(midi.DefaultSettle, manager.PlayChord)

	// Only auto-connect configured keyboards when any are configured;
	// otherwise accept whatever shows up.
	var filter func(string) bool
	if auto := cfg.AutoConnectControllers(); len(auto) > 0 {
		names := make(map[string]bool, len(auto))
		for _, ctrl := range auto {
			names[ctrl.PortName] = true
		}
		filter = func(portName string) bool { return names[portName] }
	}
	deviceMgr := midi.NewDeviceManager(filter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	th := theme.New(theme.LoadGPLOr("palettes/dusk.gpl", theme.DefaultPalette()))

	m := tui.NewModel(manager, deviceMgr, capture, store, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	saveSettings(cfg, manager)
}
