package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/project-estimator/internal/engine"
	"github.com/jonathan/project-estimator/internal/logging"
	"github.com/jonathan/project-estimator/internal/matching"
	"github.com/jonathan/project-estimator/internal/observability"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Load calibration sources and print what was ingested",
	Long:  "Loads all configured calibration sources, prints load diagnostics and the aggregated records that will influence estimates. Useful to sanity-check new historical data before deploying it.",
	RunE:  runCalibrate,
}

var (
	calibrateConfigPath     string
	calibrateCalibrationDir string
	calibrateDatabaseURL    string
	calibrateJSON           bool
)

func init() {
	calibrateCmd.Flags().StringVar(&calibrateConfigPath, "config", "", "Path to JSON config file")
	calibrateCmd.Flags().StringVar(&calibrateCalibrationDir, "calibration-dir", "", "Directory of calibration files (csv, html, sqlite)")
	calibrateCmd.Flags().StringVar(&calibrateDatabaseURL, "db-url", "", "PostgreSQL URL with historical rows")
	calibrateCmd.Flags().BoolVar(&calibrateJSON, "json", false, "Print raw JSON instead of formatted output")

	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(calibrateConfigPath, calibrateCalibrationDir, calibrateDatabaseURL)
	if err != nil {
		return err
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

	stats, err := est.Reload(context.Background())
	if err != nil {
		return fmt.Errorf("calibration load failed: %w", err)
	}

	if calibrateJSON {
		out := struct {
			Stats   any `json:"stats"`
			Records any `json:"records"`
		}{Stats: stats, Records: est.Store().Records()}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintLoadStats(stats)

	usable := 0
	for _, rec := range est.Store().Records() {
		if rec.SampleCount >= matching.MinUsableSamples {
			usable++
			fmt.Printf("  %-40s %3d samples  avg %6.1fh\n", rec.Label, rec.SampleCount, rec.AverageHours)
		}
	}
	fmt.Printf("%d of %d records have enough samples to calibrate estimates\n", usable, est.Store().Len())

	return nil
}
