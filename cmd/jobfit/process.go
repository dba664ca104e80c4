package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hexcelerate/jobfit/internal/pipeline"
	"github.com/hexcelerate/jobfit/internal/types"
)

var processCommand = &cobra.Command{
	Use:   "process",
	Short: "Evaluate one application against its job posting",
	Long:  "Extracts text from the resume document, scores it against the job posting with the configured scoring engine, and persists the result. A qualifying score triggers an interview invitation email.",
	RunE:  runProcessCmd,
}

var (
	processConfigPath    string
	processApplicationID string
	processJobID         string
	processResumePath    string
	processVersion       string
	processThreshold     int
	processVerbose       bool
)

func init() {
	processCommand.Flags().StringVar(&processConfigPath, "config", "", "Path to config.json file")
	processCommand.Flags().StringVar(&processApplicationID, "application-id", "", "Application UUID (required)")
	processCommand.Flags().StringVar(&processJobID, "job-id", "", "Job posting UUID (required)")
	processCommand.Flags().StringVarP(&processResumePath, "resume", "r", "", "Path to the resume PDF (required)")
	processCommand.Flags().StringVar(&processVersion, "version", "", "Scoring engine version tag (defaults to configuration)")
	processCommand.Flags().IntVar(&processThreshold, "threshold", 0, "Second-round eligibility threshold (defaults to configuration)")
	processCommand.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = processCommand.MarkFlagRequired("application-id")
	_ = processCommand.MarkFlagRequired("job-id")
	_ = processCommand.MarkFlagRequired("resume")

	rootCmd.AddCommand(processCommand)
}

func runProcessCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	applicationID, err := uuid.Parse(processApplicationID)
	if err != nil {
		return fmt.Errorf("invalid application id: %w", err)
	}
	jobID, err := uuid.Parse(processJobID)
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}

	resume, err := os.ReadFile(processResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	a, err := newApp(ctx, processConfigPath, processVerbose)
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := a.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	application, err := a.store.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}

	opts := processingOptions(a, processVersion, processThreshold)
	opts.FormData = application.FormData

	breakdown, err := a.applications.ProcessApplication(ctx, applicationID, resume, job, opts)
	if err != nil {
		return err
	}
	return printJSON(breakdown)
}

// processingOptions merges flag overrides over the configured defaults.
func processingOptions(a *app, version string, threshold int) pipeline.ProcessingOptions {
	opts := pipeline.ProcessingOptions{
		ScoringVersion: types.ScoringVersion(a.cfg.ScoringVersion),
		Threshold:      a.cfg.Threshold,
	}
	if version != "" {
		opts.ScoringVersion = types.ScoringVersion(version)
	}
	if threshold > 0 {
		opts.Threshold = threshold
	}
	return opts
}
