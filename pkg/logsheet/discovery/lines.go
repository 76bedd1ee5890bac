package discovery

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// ReadLines reads a capture and splits it into lines. The file is decoded
// from the named encoding (WHATWG labels such as "utf-8", "shift_jis" or
// "euc-jp"); a byte order mark overrides it. Lines end at "\n", "\r\n" or
// "\r" and the terminator is dropped.
func ReadLines(fs afero.Fs, name, encoding string) ([]string, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", encoding, err)
	}

	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return splitLines(string(data)), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Load reads both captures of p.
func (p PairFiles) Load(fs afero.Fs, encoding string) (models.LogPair, error) {
	source, err := ReadLines(fs, p.SourcePath, encoding)
	if err != nil {
		return models.LogPair{}, err
	}
	target, err := ReadLines(fs, p.TargetPath, encoding)
	if err != nil {
		return models.LogPair{}, err
	}
	return models.LogPair{
		ServerID:   p.ServerID,
		SourceHost: p.SourceHost,
		TargetHost: p.TargetHost,
		Source:     models.NewLogLines(source),
		Target:     models.NewLogLines(target),
	}, nil
}
