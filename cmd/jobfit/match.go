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

var matchCommand = &cobra.Command{
	Use:   "match",
	Short: "Rank a company's active jobs against a resume and interests",
	Long:  "Extracts text from the resume document and ranks the company's active job pool against it using cached scores, title matching, and optional batched AI enhancement.",
	RunE:  runMatchCmd,
}

var (
	matchConfigPath   string
	matchResumePath   string
	matchCompanyID    string
	matchUserID       string
	matchSessionID    string
	matchInterests    []string
	matchMaxResults   int
	matchEnhance      bool
	matchEnhanceLimit int
	matchNoCache      bool
	matchVerbose      bool
)

func init() {
	matchCommand.Flags().StringVar(&matchConfigPath, "config", "", "Path to config.json file")
	matchCommand.Flags().StringVarP(&matchResumePath, "resume", "r", "", "Path to the resume PDF (required)")
	matchCommand.Flags().StringVar(&matchCompanyID, "company-id", "", "Company UUID whose active jobs to match (required)")
	matchCommand.Flags().StringVar(&matchUserID, "user-id", "", "User UUID, enables cached score reuse")
	matchCommand.Flags().StringVar(&matchSessionID, "session-id", "", "Session identifier for anonymous tracking")
	matchCommand.Flags().StringSliceVarP(&matchInterests, "interest", "i", nil, "Declared interest, repeatable (required)")
	matchCommand.Flags().IntVar(&matchMaxResults, "max-results", 0, "Maximum results to return (0 = all)")
	matchCommand.Flags().BoolVar(&matchEnhance, "enhance", false, "Re-score top matches with AI classification")
	matchCommand.Flags().IntVar(&matchEnhanceLimit, "enhance-limit", 0, "How many top matches to enhance (default 5)")
	matchCommand.Flags().BoolVar(&matchNoCache, "no-cache", false, "Skip cached scores and session caching")
	matchCommand.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = matchCommand.MarkFlagRequired("resume")
	_ = matchCommand.MarkFlagRequired("company-id")
	_ = matchCommand.MarkFlagRequired("interest")

	rootCmd.AddCommand(matchCommand)
}

func runMatchCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	companyID, err := uuid.Parse(matchCompanyID)
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}

	userID := uuid.Nil
	if matchUserID != "" {
		if userID, err = uuid.Parse(matchUserID); err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
	}

	resume, err := os.ReadFile(matchResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	a, err := newApp(ctx, matchConfigPath, matchVerbose)
	if err != nil {
		return err
	}
	defer a.Close()

	config := types.DefaultMatchingConfig()
	config.MaxResults = matchMaxResults
	config.UseLLMEnhancement = matchEnhance
	if matchEnhanceLimit > 0 {
		config.EnhancementLimit = matchEnhanceLimit
	}
	if matchNoCache {
		config.UseCachedScores = false
	}

	outcome, err := a.matching.ProcessMatching(ctx, resume, matchInterests, pipeline.MatchingOptions{
		CompanyID:       companyID,
		UserID:          userID,
		SessionID:       matchSessionID,
		Config:          &config,
		SkipResultCache: matchNoCache,
	})
	if err != nil {
		return err
	}
	return printJSON(outcome)
}
