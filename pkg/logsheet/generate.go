package logsheet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/align"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/archive"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/builder"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/discovery"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/merge"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SheetSummary describes one sheet added by Generate.
type SheetSummary struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	// Rows is the number of comparison rows below the header.
	Rows int `json:"rows"`
	// Mismatches is the number of rows whose comparison formula is false.
	Mismatches int `json:"mismatches"`
}

// Report is the outcome of Generate.
type Report struct {
	Output   string                                 `json:"output"`
	Sheets   []SheetSummary                         `json:"sheets"`
	Skipped  []*merge.IllegalSheetNameError         `json:"-"`
	Failed   []*PairError                           `json:"-"`
	Warnings []*discovery.MissingCounterpartWarning `json:"-"`
}

// builtSheet is a comparison sheet together with what it was built from.
type builtSheet struct {
	serverID string
	sheet    *models.Sheet
	rows     int
}

// Generate discovers capture pairs under opts.InputDir, builds one comparison
// sheet per pair and appends the sheets to opts.Output, creating it when
// absent. A pair that cannot be read or built is left out and listed in
// Report.Failed; the run fails only when no pair produced a sheet. An
// existing output that cannot be read aborts the run before anything is
// written.
func Generate(ctx context.Context, fs afero.Fs, opts Options) (*Report, error) {
	logger := opts.logger()
	tmpl := opts.header()
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	output := opts.Output
	if output == "" {
		output = DefaultOutput
	}

	found, err := discovery.Discover(fs, opts.InputDir, discovery.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	if len(found.Pairs) == 0 {
		return nil, fmt.Errorf("%w under %q", ErrNoPairs, opts.InputDir)
	}

	built, failed, err := buildSheets(ctx, fs, found.Pairs, tmpl, opts)
	if err != nil {
		return nil, err
	}
	if len(built) == 0 {
		errs := make([]error, len(failed))
		for i, f := range failed {
			errs[i] = f
		}
		return nil, multierr.Combine(errs...)
	}
	sheets := make([]*models.Sheet, len(built))
	for i, b := range built {
		sheets[i] = b.sheet
	}

	existing, err := readExisting(fs, output)
	if err != nil {
		return nil, err
	}

	wb, mergeErr := merge.Merge(existing, sheets)
	report := &Report{Output: output, Failed: failed, Warnings: found.Warnings}
	for _, err := range multierr.Errors(mergeErr) {
		var illegal *merge.IllegalSheetNameError
		if !errors.As(err, &illegal) {
			return nil, err
		}
		logger.Warn("Sheet skipped", zap.String("sheet", illegal.Name), zap.Error(illegal.Err))
		report.Skipped = append(report.Skipped, illegal)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := archive.WriteFile(fs, output, wb); err != nil {
		return nil, fmt.Errorf("writing %s: %w", output, err)
	}

	for _, b := range built {
		if wb.Sheet(b.sheet.Name) != b.sheet {
			continue
		}
		summary := summarize(b)
		logger.Info("Sheet added",
			zap.String("sheet", summary.Name),
			zap.Int("rows", summary.Rows),
			zap.Int("mismatches", summary.Mismatches))
		report.Sheets = append(report.Sheets, summary)
	}
	logger.Info("Workbook generated", zap.String("output", output), zap.Int("sheets", len(wb.Sheets)))
	return report, nil
}

// buildSheets reads, aligns and builds every pair, keeping discovery order.
// Pairs that fail are returned separately; only cancellation is an error.
func buildSheets(ctx context.Context, fs afero.Fs, files []discovery.PairFiles, tmpl builder.HeaderTemplate, opts Options) ([]builtSheet, []*PairError, error) {
	logger := opts.logger()
	results := make([]builtSheet, len(files))
	failures := make([]*PairError, len(files))
	err := eachPair(ctx, files, opts.workers(), func(i int, pf discovery.PairFiles) error {
		b, pairErr := buildSheet(fs, pf, tmpl, opts.Encoding)
		if pairErr != nil {
			logger.Warn("Pair skipped", zap.String("server", pf.ServerID), zap.Error(pairErr))
			failures[i] = pairErr
			return nil
		}
		logger.Debug("Pair aligned", zap.String("server", pf.ServerID), zap.Int("rows", b.rows))
		results[i] = b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var built []builtSheet
	var failed []*PairError
	for i := range files {
		if failures[i] != nil {
			failed = append(failed, failures[i])
			continue
		}
		built = append(built, results[i])
	}
	return built, failed, nil
}

func buildSheet(fs afero.Fs, pf discovery.PairFiles, tmpl builder.HeaderTemplate, encoding string) (builtSheet, *PairError) {
	pair, err := pf.Load(fs, encoding)
	if err != nil {
		return builtSheet{}, NewPairError(pf.ServerID, StageRead, err)
	}
	ops := align.Align(models.Texts(pair.Source), models.Texts(pair.Target))
	rows := align.Rows(ops, pair.Source, pair.Target)
	sheet, err := builder.BuildRows(pair, rows, tmpl)
	if err != nil {
		return builtSheet{}, NewPairError(pf.ServerID, StageBuild, err)
	}
	return builtSheet{serverID: pf.ServerID, sheet: sheet, rows: len(rows)}, nil
}

// readExisting decodes the workbook at name, or returns nil when there is none.
func readExisting(fs afero.Fs, name string) (*models.Workbook, error) {
	exists, err := afero.Exists(fs, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	wb, err := archive.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("reading existing workbook %s: %w", name, err)
	}
	return wb, nil
}

func summarize(b builtSheet) SheetSummary {
	summary := SheetSummary{ServerID: b.serverID, Name: b.sheet.Name, Rows: b.rows}
	for _, c := range b.sheet.Cells() {
		if equal, ok := builder.ComparisonResult(c); ok && !equal {
			summary.Mismatches++
		}
	}
	return summary
}
