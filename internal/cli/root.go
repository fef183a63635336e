// Package cli wires the cobra command tree for the underwriting engine.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped at build time via -ldflags.
var Version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mca-engine",
	Short: "Bank statement analysis for merchant cash advance underwriting",
	Long: `mca-engine turns raw bank statement PDFs into a structured underwriting
picture: extracted transactions, an extraction quality score, classified
cash flow, reconstructed advance positions, and a risk score with red flags.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./mca-engine.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("mca-engine")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MCA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
