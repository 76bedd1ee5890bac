// Package logsheet builds and verifies comparison workbooks from paired log
// captures.
package logsheet

import (
	"runtime"

	"github.com/ukaji3/logsheet-go/pkg/logsheet/builder"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/discovery"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/verify"
	"go.uber.org/zap"
)

const (
	// DefaultOutput is the workbook written by Generate and read by Verify.
	DefaultOutput = "comparison.xlsx"
	// DefaultInputDir is where Generate looks for captures.
	DefaultInputDir = "."
	// DefaultVerifyInputDir is where Verify looks for the reference captures.
	DefaultVerifyInputDir = "ref"
)

// Options configures Generate and Verify.
type Options struct {
	// InputDir is the directory scanned for captures.
	InputDir string
	// Output is the workbook Generate creates or extends.
	Output string
	// Workbook is the workbook Verify reads. Empty means Output.
	Workbook string
	// Encoding is the character set of the captures.
	Encoding string
	// Workers bounds how many pairs are read and built at once.
	// Zero or less uses GOMAXPROCS.
	Workers int
	// Header is the header block written to every new sheet.
	Header builder.HeaderTemplate
	// Reader selects how Verify reads the workbook back.
	Reader verify.Reader
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultOptions returns options for a run in the current directory.
func DefaultOptions() Options {
	return Options{
		InputDir: DefaultInputDir,
		Output:   DefaultOutput,
		Encoding: discovery.DefaultEncoding,
		Header:   builder.DefaultHeaderTemplate(),
		Reader:   verify.ReaderNative,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

func (o Options) header() builder.HeaderTemplate {
	if o.Header == (builder.HeaderTemplate{}) {
		return builder.DefaultHeaderTemplate()
	}
	return o.Header
}

func (o Options) workbook() string {
	if o.Workbook == "" {
		if o.Output == "" {
			return DefaultOutput
		}
		return o.Output
	}
	return o.Workbook
}
