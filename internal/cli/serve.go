package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/mca-underwriting-engine/internal/api"
	"github.com/insightdelivered/mca-underwriting-engine/internal/config"
	"github.com/insightdelivered/mca-underwriting-engine/internal/pipeline"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		pipe, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		app := api.NewServer(pipe, Version).App()
		fmt.Fprintf(os.Stderr, "listening on %s\n", serveAddr)
		return app.Listen(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
