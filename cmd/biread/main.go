package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/biread/internal/cli"
	"codeberg.org/snonux/biread/internal/models"
	"codeberg.org/snonux/biread/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Handle --list-languages flag
	if flags.ListLanguages {
		cli.PrintLanguages()
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	proc := processor.NewProcessor(flags)

	if len(args) > 0 {
		// Translate a single document in headless mode
		return proc.ProcessDocument(args[0])
	}

	// No input provided - launch GUI mode by default
	return proc.RunGUIMode()
}
