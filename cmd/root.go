package cmd

import (
	"github.com/spf13/cobra"

	"go-comping/debug"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "go-comping",
	Short: "Real-time comping engine for chord instruments",
	Long: `go-comping turns held chords into rhythmic accompaniment: pick a
playback mode (block, stride, bossa, ...) and the engine decides when
each note of the chord sounds, with optional humanize jitter.

Run without arguments to open the performance TUI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			debug.Enable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		play()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log to ~/.config/go-comping/debug.log")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
