package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/axellelanca/linkshortener/internal/config"
	"github.com/axellelanca/linkshortener/internal/logger"
)

// Cfg and Logger are loaded before any subcommand runs.
var (
	Cfg    *config.Config
	Logger *logrus.Logger
)

var configFile string

// RootCmd is the base command for the CLI application.
// Subcommands (create, stats, inspect, migrate, run-server) register
// themselves from their own init() functions.
var RootCmd = &cobra.Command{
	Use:   "linkshortener",
	Short: "A URL shortener backed by a key-value store",
	Long: `A URL shortener that maps long URLs to short hashes,
resolves them back and counts clicks, backed by Redis or SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		Cfg = cfg
		Logger = logger.New(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

// Execute is called from main.go.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./configs/config.yaml)")
}
