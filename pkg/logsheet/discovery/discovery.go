// Package discovery finds paired log captures in a directory and reads them.
//
// A capture is a *.log file whose host name is its stem, or the part of the
// stem after the first "diff_". The last letter of the host selects the side:
// "s" for the source environment and "p" for the target environment. The rest
// of the host is the server id shared by both sides, so web01s.log and
// diff_web01p.log form the pair web01.
package discovery

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const logExt = ".log"

// Side markers at the end of a host name.
const (
	sourceSuffix = 's'
	targetSuffix = 'p'
)

// Origins reported by MissingCounterpartWarning.
const (
	OriginSource = "source"
	OriginTarget = "target"
)

// Options configures Discover.
type Options struct {
	// Logger receives one warning per unpaired capture. Defaults to a no-op logger.
	Logger *zap.Logger
}

// PairFiles locates the two captures of one server.
type PairFiles struct {
	ServerID   string
	SourceHost string
	TargetHost string
	SourcePath string
	TargetPath string
}

// MissingCounterpartWarning reports a capture whose other side was not found.
type MissingCounterpartWarning struct {
	ServerID string
	Path     string
	Origin   string
}

func (w *MissingCounterpartWarning) Error() string {
	return fmt.Sprintf("%s capture %s of server %q has no counterpart", w.Origin, w.Path, w.ServerID)
}

// Result holds the pairs found in a directory, sorted by server id, and the
// captures left unpaired.
type Result struct {
	Pairs    []PairFiles
	Warnings []*MissingCounterpartWarning
}

type capture struct {
	host string
	path string
}

// Discover scans dir (not recursively) for capture pairs.
func Discover(fs afero.Fs, dir string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	isDir, err := afero.IsDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("input directory %q: %w", dir, err)
	}
	if !isDir {
		return nil, fmt.Errorf("input directory %q is not a directory", dir)
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %q: %w", dir, err)
	}

	sources := make(map[string]capture)
	targets := make(map[string]capture)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), logExt) {
			continue
		}
		host := HostName(name)
		if len(host) < 2 {
			logger.Debug("Skipping log without server id", zap.String("file", name))
			continue
		}
		serverID := host[:len(host)-1]
		c := capture{host: host, path: filepath.Join(dir, name)}

		var side map[string]capture
		switch lower(host[len(host)-1]) {
		case sourceSuffix:
			side = sources
		case targetSuffix:
			side = targets
		default:
			logger.Debug("Skipping log without side marker", zap.String("path", c.path))
			continue
		}
		// ReadDir is sorted by name, so the first capture of a host wins
		if prev, ok := side[serverID]; ok {
			logger.Warn("Duplicate capture ignored",
				zap.String("server", serverID),
				zap.String("kept", prev.path),
				zap.String("ignored", c.path))
			continue
		}
		side[serverID] = c
	}

	result := &Result{}
	for serverID, src := range sources {
		tgt, ok := targets[serverID]
		if !ok {
			result.Warnings = append(result.Warnings, &MissingCounterpartWarning{ServerID: serverID, Path: src.path, Origin: OriginSource})
			continue
		}
		result.Pairs = append(result.Pairs, PairFiles{
			ServerID:   serverID,
			SourceHost: src.host,
			TargetHost: tgt.host,
			SourcePath: src.path,
			TargetPath: tgt.path,
		})
	}
	for serverID, tgt := range targets {
		if _, ok := sources[serverID]; !ok {
			result.Warnings = append(result.Warnings, &MissingCounterpartWarning{ServerID: serverID, Path: tgt.path, Origin: OriginTarget})
		}
	}

	sort.Slice(result.Pairs, func(i, j int) bool {
		return result.Pairs[i].ServerID < result.Pairs[j].ServerID
	})
	sort.Slice(result.Warnings, func(i, j int) bool {
		return result.Warnings[i].Path < result.Warnings[j].Path
	})
	for _, w := range result.Warnings {
		logger.Warn("Log without counterpart",
			zap.String("server", w.ServerID),
			zap.String("origin", w.Origin),
			zap.String("path", w.Path))
	}
	return result, nil
}

// HostName returns the host encoded in a capture file name: the stem, or the
// part of the stem after the first "diff_".
func HostName(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if _, after, ok := strings.Cut(stem, "diff_"); ok {
		return after
	}
	return stem
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
