package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/logsheet-go/pkg/logsheet"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/discovery"
)

func (a *app) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build or extend the comparison workbook",
		Args:  cobra.NoArgs,
		RunE:  a.runBuild,
	}

	cmd.Flags().String(keyInputDir, logsheet.DefaultInputDir, "Directory containing the source/target log files")
	cmd.Flags().StringP(keyOutput, "o", logsheet.DefaultOutput, "Workbook to create or extend")
	cmd.Flags().String(keyEncoding, "utf-8", "Character encoding of the log files")
	cmd.Flags().Int(keyWorkers, 0, "Pairs processed in parallel (default: number of CPUs)")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(a.v, cmd, nil)
	if err != nil {
		return err
	}
	opts, err := config.options()
	if err != nil {
		return err
	}
	defer func() { _ = opts.Logger.Sync() }()

	report, err := logsheet.Generate(cmd.Context(), a.fs, opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "Skipped %s: no %s counterpart\n", w.Path, counterpart(w.Origin))
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "Skipped server %s: %v\n", f.ServerID, f.Err)
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "Skipped sheet %q: %v\n", s.Name, s.Err)
	}
	for _, s := range report.Sheets {
		fmt.Fprintf(out, "Added sheet %s: %d rows, %d differing\n", s.Name, s.Rows, s.Mismatches)
	}
	path := report.Output
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fmt.Fprintf(out, "Workbook generated: %s\n", path)
	return nil
}

func counterpart(origin string) string {
	if origin == discovery.OriginSource {
		return discovery.OriginTarget
	}
	return discovery.OriginSource
}
