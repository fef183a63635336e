package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return cfg.Dump(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
