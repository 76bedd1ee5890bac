package logsheet

import (
	"context"

	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/discovery"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"golang.org/x/sync/errgroup"
)

// eachPair runs fn for every pair on at most workers goroutines. Results are
// written by index, so callers keep discovery order.
func eachPair(ctx context.Context, pairs []discovery.PairFiles, workers int, fn func(i int, pf discovery.PairFiles) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pf := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i, pf)
		})
	}
	return g.Wait()
}

// loadPairs reads the captures of every pair.
func loadPairs(ctx context.Context, fs afero.Fs, files []discovery.PairFiles, opts Options) ([]models.LogPair, error) {
	pairs := make([]models.LogPair, len(files))
	err := eachPair(ctx, files, opts.workers(), func(i int, pf discovery.PairFiles) error {
		pair, err := pf.Load(fs, opts.Encoding)
		if err != nil {
			return NewPairError(pf.ServerID, StageRead, err)
		}
		pairs[i] = pair
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
