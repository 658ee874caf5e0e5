package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bigladder/erin/internal/config"
	"github.com/bigladder/erin/internal/database"
	"github.com/bigladder/erin/internal/health"
	"github.com/spf13/cobra"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Print the configured simulation ceilings and runtime environment",
	Args:  cobra.NoArgs,
	RunE:  runLimits,
}

func runLimits(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("limits: %w", err)
	}

	var redis *database.RedisClient
	if cfg.Redis.Host != "" {
		redis, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			cliLog.Warning("limits: redis unavailable, reporting without it: %v", err)
			redis = nil
		}
	}

	checker := health.NewChecker(cfg, version, redis)
	report := checker.Report()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
