package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ahrav/go-verdict/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Evidential reasoning engine for legal probability assessment",
	Long: "Runs declarative case files through sequential Bayesian updating, " +
		"interval chains, Monte Carlo propagation, star-network combination, " +
		"or Dempster-Shafer belief fusion.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
