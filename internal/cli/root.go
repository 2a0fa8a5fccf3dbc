// Package cli implements the Solarin command-line interface using
// Cobra. Session control commands talk to the running daemon over its
// local HTTP API; serve runs the daemon itself.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solarin",
	Short: "Solarin — track vitamin D from sun exposure",
	Long: `Solarin estimates vitamin D synthesis from time spent in the sun,
using live UV index data, your skin type, and clothing coverage.

Run 'solarin serve' to start the tracker daemon, then control
sessions with 'solarin start', 'solarin pause', and 'solarin stop'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
