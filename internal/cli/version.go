package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mca-engine", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
