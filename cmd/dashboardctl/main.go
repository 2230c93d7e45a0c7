package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewJSONWriter(logging.LevelWarn, os.Stderr).Named("dashboardctl")
	logging.SetDefault(logger)

	if err := newRootCommand(defaultDeps()).Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
