package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridsnake/engine/version"
)

var rootCmd = &cobra.Command{
	Use:     "engine",
	Short:   "engine runs the authoritative grid snake game server",
	Version: version.Version,
	PreRun:  func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		serverCmd.Run(c, args)
	},
}

// Execute runs the root command
func Execute() {
	rootCmd.Flags().AddFlagSet(serverCmd.Flags())
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
