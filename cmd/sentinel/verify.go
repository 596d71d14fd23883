package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/resume-sentinel/internal/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <claims.json>",
	Short: "Run background verification for a claim set",
	Long: `Verify employment, education and identifier claims against public
registries without uploading a resume. The input file holds a JSON object:

  {
    "full_name": "Jane Doe",
    "positions": [{"employer_name": "Amazon Web Services", "start": "2019-03"}],
    "educations": [{"institution_name": "Stanford University"}],
    "identifiers": {"github_username": "janedoe"}
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var req types.BackgroundRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("invalid claims file: %w", err)
	}
	if req.FullName == "" {
		return fmt.Errorf("claims file must set full_name")
	}

	rt, err := buildRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	report, err := rt.analyzer.VerifyBackground(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("background verification failed: %w", err)
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
