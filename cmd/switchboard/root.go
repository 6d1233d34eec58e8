package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Switchboard routes support conversations through specialist handlers",
	Long:  `Switchboard compiles a handler graph and routes each conversation hop by hop: a router classifies the request, specialists answer it, and an escalation fallback catches everything unroutable.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the switchboard config file (optional)")
}
