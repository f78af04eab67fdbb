package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tingly-dev/streambox/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "streambox",
	Short: "Streambox - provider-agnostic LLM stream client",
	Long: `Streambox consumes streaming responses from OpenAI-, Anthropic- and
Gemini-style providers and normalizes them into one event sequence.
It ships a streaming CLI client and a mock provider for local testing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(cli.StreamCommand())
	rootCmd.AddCommand(cli.ChatCommand())
	rootCmd.AddCommand(cli.MockCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
