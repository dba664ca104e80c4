package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var reprocessCommand = &cobra.Command{
	Use:   "reprocess",
	Short: "Re-score an already processed application",
	Long:  "Re-runs scoring for an application that already holds extracted resume text, optionally under a different engine version. Extraction is skipped.",
	RunE:  runReprocessCmd,
}

var (
	reprocessConfigPath    string
	reprocessApplicationID string
	reprocessVersion       string
	reprocessThreshold     int
	reprocessVerbose       bool
)

func init() {
	reprocessCommand.Flags().StringVar(&reprocessConfigPath, "config", "", "Path to config.json file")
	reprocessCommand.Flags().StringVar(&reprocessApplicationID, "application-id", "", "Application UUID (required)")
	reprocessCommand.Flags().StringVar(&reprocessVersion, "version", "", "Scoring engine version tag (defaults to configuration)")
	reprocessCommand.Flags().IntVar(&reprocessThreshold, "threshold", 0, "Second-round eligibility threshold (defaults to configuration)")
	reprocessCommand.Flags().BoolVarP(&reprocessVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = reprocessCommand.MarkFlagRequired("application-id")

	rootCmd.AddCommand(reprocessCommand)
}

func runReprocessCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	applicationID, err := uuid.Parse(reprocessApplicationID)
	if err != nil {
		return fmt.Errorf("invalid application id: %w", err)
	}

	a, err := newApp(ctx, reprocessConfigPath, reprocessVerbose)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := processingOptions(a, reprocessVersion, reprocessThreshold)

	breakdown, err := a.applications.ReprocessApplication(ctx, applicationID, opts)
	if err != nil {
		return err
	}
	return printJSON(breakdown)
}
