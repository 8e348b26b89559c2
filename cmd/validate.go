package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postcms/pkg/config"
	"postcms/pkg/services"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the structural properties of the corpus",
	Long: `Validate every post in the corpus:

  - front matter parses and carries non-empty layout and category
  - the filename date prefix is a real calendar date
  - every fenced code block is closed
  - no two posts share a filename

Exits non-zero when any error-severity issue is found, so the check
can gate CI.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit the report as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	corpus := services.NewCorpus(config.PostsPath(), nil)
	report, err := newValidator(corpus).Run()
	if err != nil {
		return err
	}

	if validateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, issue := range report.Issues {
			if issue.Line > 0 {
				fmt.Printf("%s:%d: %s [%s] %s\n", issue.Path, issue.Line, issue.Severity, issue.Check, issue.Message)
			} else {
				fmt.Printf("%s: %s [%s] %s\n", issue.Path, issue.Severity, issue.Check, issue.Message)
			}
		}
		fmt.Printf("%d posts checked, %d errors, %d warnings\n",
			report.Checked, report.ErrorCount(), report.WarningCount())
	}

	if !report.OK() {
		return fmt.Errorf("corpus has %d validation errors", report.ErrorCount())
	}
	return nil
}
