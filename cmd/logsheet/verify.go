package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/logsheet-go/pkg/logsheet"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/verify"
)

func (a *app) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every log line appears in the workbook",
		Long: `verify reads the workbook back and reports every non-empty log line of the
reference captures that no cell of its server's newest sheet contains.
The exit status is 1 when lines are missing.`,
		Args: cobra.NoArgs,
		RunE: a.runVerify,
	}

	cmd.Flags().String(keyInputDir, logsheet.DefaultVerifyInputDir, "Directory containing the reference log files")
	cmd.Flags().String(keyWorkbook, logsheet.DefaultOutput, "Workbook to verify")
	cmd.Flags().String(keyEncoding, "utf-8", "Character encoding of the log files")
	cmd.Flags().String(keyReader, string(verify.ReaderNative), "Workbook reader: native or excelize")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(a.v, cmd, map[string]string{keyInputDir: keyRefDir})
	if err != nil {
		return err
	}
	opts, err := config.options()
	if err != nil {
		return err
	}
	defer func() { _ = opts.Logger.Sync() }()
	opts.InputDir = config.RefDir

	report, err := logsheet.Verify(cmd.Context(), a.fs, opts)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, m := range report.Missing {
			fmt.Fprintf(out, "[%s MISSING] %s: %s\n", strings.ToUpper(string(m.Origin)), m.ServerID, m.Text)
		}
		result := "PASSED"
		if !report.Passed() {
			result = "FAILED"
		}
		fmt.Fprintln(out, "Verification result:", result)
	}
	return report.Err()
}
