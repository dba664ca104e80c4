package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCommand = &cobra.Command{
	Use:   "session [session-id]",
	Short: "Read back a cached matching session",
	Long:  "Retrieves a previously cached matching session and reconstructs its results by re-fetching the referenced jobs. Accepts either a session id or a signed tracking token. Expired or unknown sessions report not found.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionCmd,
}

var (
	sessionConfigPath string
	sessionToken      string
	sessionVerbose    bool
)

func init() {
	sessionCommand.Flags().StringVar(&sessionConfigPath, "config", "", "Path to config.json file")
	sessionCommand.Flags().StringVar(&sessionToken, "token", "", "Tracking token returned by the match command")
	sessionCommand.Flags().BoolVarP(&sessionVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(sessionCommand)
}

func runSessionCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 0 && sessionToken == "" {
		return fmt.Errorf("provide a session id or --token")
	}

	a, err := newApp(ctx, sessionConfigPath, sessionVerbose)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := ""
	if len(args) == 1 {
		sessionID = args[0]
	}
	if sessionToken != "" {
		if a.tokens == nil {
			return fmt.Errorf("session secret is not configured, cannot validate tokens")
		}
		claims, err := a.tokens.Validate(sessionToken)
		if err != nil {
			return err
		}
		if sessionID != "" && sessionID != claims.SessionID {
			return fmt.Errorf("token does not match session %s", sessionID)
		}
		sessionID = claims.SessionID
	}

	outcome, err := a.matching.GetCachedMatchingResults(ctx, sessionID)
	if err != nil {
		return err
	}
	if outcome == nil {
		return fmt.Errorf("session %s not found or expired", sessionID)
	}
	return printJSON(outcome)
}
