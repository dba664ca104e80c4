// Package main provides the jobfit CLI for running application evaluation
// and job matching against the document store.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobfit",
	Short: "Application evaluation and job matching pipeline",
	Long:  "jobfit scores submitted applications against job postings and ranks job pools against candidate profiles, using document text extraction and AI classification.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
