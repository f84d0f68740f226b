package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/commitboard/internal/config"
)

// Set through -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var configFile string

// @title Commitboard API
// @version 1.0
// @description Guild commands for GitHub contribution leaderboards and their daily schedule
// @host localhost:8080
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "commitboard",
		Short: "GitHub contribution leaderboards for chat guilds",
		Long: `commitboard ranks GitHub authors by lines changed and posts the
leaderboard to chat channels, on demand and on a daily schedule.

Commands:
  serve     Run the bot, its HTTP command surface and the scheduler
  report    Print one leaderboard and exit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./commitboard.{yaml,json,toml})")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "commitboard %s (commit: %s)\n", version, commit)
		},
	}
}

// loadConfig reads .env, then the configuration, and builds the logger
func loadConfig() (*config.Config, *logrus.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg)
	if envErr != nil {
		logger.Debug("No .env file found")
	}
	return cfg, logger, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
