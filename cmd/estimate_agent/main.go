// Package main provides the entry point for the project estimation CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "estimate_agent",
	Short: "Project Effort Estimation Engine",
	Long:  "Turns extracted feature lists into calibrated hour estimates, confidence scores and phase/team plans using historical project data, via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
