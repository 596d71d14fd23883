package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume.pdf|resume.docx>",
	Short: "Analyze a resume file for fraud signals",
	Long:  "Run the full detection pipeline against a local resume file and print the aggregated report as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	rt, err := buildRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	resp := rt.analyzer.AnalyzeFile(cmd.Context(), content, filepath.Base(path))

	encoded, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, encoded, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (overall score %d)\n", analyzeOutput, resp.Aggregated.OverallScore)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
