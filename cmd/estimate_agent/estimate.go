package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/project-estimator/internal/config"
	"github.com/jonathan/project-estimator/internal/engine"
	"github.com/jonathan/project-estimator/internal/logging"
	"github.com/jonathan/project-estimator/internal/observability"
	"github.com/jonathan/project-estimator/internal/types"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a project from a JSON feature list",
	Long:  "Loads historical calibration data, estimates hours for each feature in the input file, and prints the project estimate with confidence and resource plan.",
	RunE:  runEstimate,
}

var (
	estimateFeaturesPath   string
	estimateConfigPath     string
	estimateCalibrationDir string
	estimateDatabaseURL    string
	estimateScopeFactor    float64
	estimateTimelineWeeks  float64
	estimateVerbose        bool
)

func init() {
	estimateCmd.Flags().StringVarP(&estimateFeaturesPath, "features", "f", "", "Path to JSON file with the feature list (required)")
	estimateCmd.Flags().StringVar(&estimateConfigPath, "config", "", "Path to JSON config file")
	estimateCmd.Flags().StringVar(&estimateCalibrationDir, "calibration-dir", "", "Directory of calibration files (csv, html, sqlite)")
	estimateCmd.Flags().StringVar(&estimateDatabaseURL, "db-url", "", "PostgreSQL URL with historical rows")
	estimateCmd.Flags().Float64Var(&estimateScopeFactor, "scope-factor", 0, "Project-wide scope multiplier in (0, 1]; 0 means full scope")
	estimateCmd.Flags().Float64Var(&estimateTimelineWeeks, "timeline-weeks", 0, "Declared timeline in weeks; 0 derives it from the total")
	estimateCmd.Flags().BoolVarP(&estimateVerbose, "verbose", "v", false, "Print formatted summaries instead of raw JSON")

	if err := estimateCmd.MarkFlagRequired("features"); err != nil {
		panic(fmt.Sprintf("failed to mark features flag as required: %v", err))
	}

	rootCmd.AddCommand(estimateCmd)
}

// loadConfig merges the optional config file with CLI flag overrides.
func loadConfig(configPath, calibrationDir, databaseURL string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if calibrationDir != "" {
		cfg.CalibrationDir = calibrationDir
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return &cfg, nil
}

func runEstimate(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(estimateFeaturesPath)
	if err != nil {
		return fmt.Errorf("failed to read features file: %w", err)
	}

	var req types.EstimateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse features file: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid features file: %w", err)
	}
	if estimateScopeFactor != 0 {
		req.ScopeFactor = estimateScopeFactor
	}
	if estimateTimelineWeeks != 0 {
		req.TimelineWeeks = estimateTimelineWeeks
	}

	cfg, err := loadConfig(estimateConfigPath, estimateCalibrationDir, estimateDatabaseURL)
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

	resp, err := est.Estimate(&req)
	if err != nil {
		return err
	}

	if estimateVerbose || cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintLoadStats(stats)
		printer.PrintProjectEstimate(&resp.Estimate)
		printer.PrintPlan(&resp.Plan)
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
