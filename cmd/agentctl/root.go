// Command agentctl is an interactive driver for the agent runtime: a chat
// REPL plus tool-catalogue inspection.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "agentctl",
	Short: "Drive the LLM agent runtime from a terminal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(chatCmd(), toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
