// Package main provides the entry point for the resume-sentinel fraud
// detection service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Resume fraud detection service",
	Long:  "Resume Sentinel analyzes uploaded resumes for fraud signals: AI-generated text, forged document metadata, fake contact details, unverifiable employment and education claims, and missing digital footprint.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
