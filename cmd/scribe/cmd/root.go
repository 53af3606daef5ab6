// Package cmd implements the scribe CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version, commit, date string

// SetVersionInfo sets version information from ldflags.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Inspect selection-driven UI visibility for editing surfaces",
	Long: `Scribe models the toolbar and sidebar of a rich-text editor: containers
declare show-on conditions, and a per-surface registry decides which of them
are visible for the current selection.

The CLI loads a surface definition and an HTML document, simulates a
selection, and reports the decision for every container.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribe: %v\n", err)
	}
	return err
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("scribe %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("scribe %s\n", version)
}
