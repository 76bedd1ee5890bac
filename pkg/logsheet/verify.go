package logsheet

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/discovery"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/verify"
	"go.uber.org/zap"
)

// VerifyReport is the outcome of Verify.
type VerifyReport struct {
	Workbook string                                 `json:"workbook"`
	Pairs    int                                    `json:"pairs"`
	Missing  []verify.MissingLine                   `json:"missing"`
	Warnings []*discovery.MissingCounterpartWarning `json:"-"`
}

// Passed reports whether every line was found.
func (r *VerifyReport) Passed() bool {
	return len(r.Missing) == 0
}

// Err returns ErrVerificationFailed when lines are missing.
func (r *VerifyReport) Err() error {
	if r.Passed() {
		return nil
	}
	return fmt.Errorf("%w: %d missing lines", ErrVerificationFailed, len(r.Missing))
}

// Verify checks that every line of the captures under opts.InputDir appears in
// the workbook at opts.Workbook. Missing lines are reported as data, not as an
// error.
func Verify(ctx context.Context, fs afero.Fs, opts Options) (*VerifyReport, error) {
	logger := opts.logger()
	name := opts.workbook()

	found, err := discovery.Discover(fs, opts.InputDir, discovery.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	if len(found.Pairs) == 0 {
		return nil, fmt.Errorf("%w under %q", ErrNoPairs, opts.InputDir)
	}

	pairs, err := loadPairs(ctx, fs, found.Pairs, opts)
	if err != nil {
		return nil, err
	}

	missing, err := verify.File(fs, name, pairs, opts.Reader)
	if err != nil {
		return nil, fmt.Errorf("verifying %s: %w", name, err)
	}
	for _, m := range missing {
		logger.Debug("Line missing",
			zap.String("server", m.ServerID),
			zap.String("origin", string(m.Origin)),
			zap.Int("line", m.LineIndex+1))
	}
	logger.Info("Workbook verified",
		zap.String("workbook", name),
		zap.Int("pairs", len(pairs)),
		zap.Int("missing", len(missing)))

	return &VerifyReport{
		Workbook: name,
		Pairs:    len(pairs),
		Missing:  missing,
		Warnings: found.Warnings,
	}, nil
}
