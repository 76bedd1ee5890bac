package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/logsheet-go/internal/dlogger"
)

// app carries what the subcommands share.
type app struct {
	fs afero.Fs
	v  *viper.Viper
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: newViper()}
	a.v.SetFs(fs)

	rootCmd := &cobra.Command{
		Use:   "logsheet",
		Short: "Compare paired log captures in a spreadsheet",
		Long: `logsheet-go aligns log captures taken on a source and a target environment
and writes one comparison sheet per server into an XLSX workbook.

Captures are *.log files named <host>s.log and <host>p.log (optionally
prefixed up to "diff_"). Repeated runs append new sheets to the workbook.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(keyConfig, "", "Config file (default: ./logsheet.yaml or $HOME/.logsheet/logsheet.yaml)")
	rootCmd.PersistentFlags().String(keyLogLevel, dlogger.LogLevelWarn, "Log level: debug, info, warn, error, none")

	rootCmd.AddCommand(a.newBuildCmd(), a.newVerifyCmd())
	return rootCmd
}
