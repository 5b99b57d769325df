package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/accessible-outings/outings/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "outings",
	Short: "Accessible venue and event discovery engine",
	Long:  "Discovers wheelchair-accessible venues and events near a location, scores them for accessibility and interestingness, and keeps the local catalog in sync with provider APIs.",
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
