package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/project-estimator/internal/engine"
	"github.com/jonathan/project-estimator/internal/logging"
	"github.com/jonathan/project-estimator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for project estimation and calibration management.`,
	RunE:  runServe,
}

var (
	servePort           int
	serveConfigPath     string
	serveCalibrationDir string
	serveDatabaseURL    string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().StringVar(&serveCalibrationDir, "calibration-dir", "", "Directory of calibration files (csv, html, sqlite)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL URL with historical rows")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath, serveCalibrationDir, serveDatabaseURL)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	est, err := engine.New(cfg, logger)
	if err != nil {
		return err
	}

	// Populate the store before accepting traffic. A degraded load is fine;
	// the health endpoint reports it.
	stats, err := est.Reload(context.Background())
	if err != nil {
		return fmt.Errorf("initial calibration load failed: %w", err)
	}
	if stats.Degraded() {
		logger.Warn("calibration load degraded",
			"records", stats.Records,
			"warnings", len(stats.Warnings))
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, est, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
