package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	mermaid "github.com/aretw0/switchboard/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the routing graph visualization",
	Long:  `Compiles the configured graph and outputs a Mermaid diagram (graph TD) of the routing topology.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")

		app, err := cli.BuildApp(cfgPath)
		if err != nil {
			fmt.Printf("Error initializing switchboard: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(mermaid.GenerateMermaid(app.Engine.Graph(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
