package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive conversation in the terminal",
	Long:  `Starts a terminal chat session against the configured graph. Each line of input is routed to completion and the specialist reply is rendered inline.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		plain, _ := cmd.Flags().GetBool("plain")

		app, err := cli.BuildApp(cfgPath)
		if err != nil {
			fmt.Printf("Error initializing switchboard: %v\n", err)
			os.Exit(1)
		}

		if !plain {
			tui.PrintBanner()
		}

		if err := cli.RunInteractive(cmd.Context(), app, os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Skip the banner (useful when piping input)")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}
