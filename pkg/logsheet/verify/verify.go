package verify

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/archive"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/merge"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
)

// Origin names the side of a pair a line came from.
type Origin string

const (
	OriginSource Origin = "source"
	OriginTarget Origin = "target"
)

// MissingLine is a log line whose text appears in no cell of its server's sheet.
type MissingLine struct {
	ServerID  string `json:"server_id"`
	Origin    Origin `json:"origin"`
	LineIndex int    `json:"line_index"`
	Text      string `json:"text"`
}

func (m MissingLine) String() string {
	return fmt.Sprintf("%s %s line %d: %q", m.ServerID, m.Origin, m.LineIndex+1, m.Text)
}

// Reader selects how the document is read back.
type Reader string

const (
	// ReaderNative reads the document with this module's decoder.
	ReaderNative Reader = "native"
	// ReaderExcelize reads the document through excelize.
	ReaderExcelize Reader = "excelize"
)

// ParseReader parses a reader name; the empty string selects ReaderNative.
func ParseReader(s string) (Reader, error) {
	switch Reader(strings.ToLower(s)) {
	case "", ReaderNative:
		return ReaderNative, nil
	case ReaderExcelize:
		return ReaderExcelize, nil
	}
	return "", fmt.Errorf("unknown reader %q (want %s or %s)", s, ReaderNative, ReaderExcelize)
}

// textSource gives the set of displayed texts of a sheet.
type textSource interface {
	sheetNames() []string
	texts(sheet string) (mapset.Set[string], error)
}

// Document checks that every non-empty line of every pair appears in the
// newest sheet of its server. The workbook is not modified.
func Document(wb *models.Workbook, pairs []models.LogPair) []MissingLine {
	// the native source never fails
	missing, _ := check(workbookSource{wb}, pairs)
	return missing
}

// File reads the document at name with reader and checks it like Document.
func File(fs afero.Fs, name string, pairs []models.LogPair, reader Reader) ([]MissingLine, error) {
	switch reader {
	case "", ReaderNative:
		wb, err := archive.ReadFile(fs, name)
		if err != nil {
			return nil, err
		}
		return Document(wb, pairs), nil
	case ReaderExcelize:
		src, err := openExcelize(fs, name)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return check(src, pairs)
	}
	return nil, fmt.Errorf("unknown reader %q", reader)
}

func check(src textSource, pairs []models.LogPair) ([]MissingLine, error) {
	names := src.sheetNames()
	var result []MissingLine
	for _, pair := range pairs {
		texts := mapset.NewThreadUnsafeSet[string]()
		if sheet := merge.Latest(names, pair.ServerID); sheet != "" {
			var err error
			if texts, err = src.texts(sheet); err != nil {
				return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
			}
		}
		result = append(result, missingLines(pair.ServerID, OriginSource, pair.Source, texts)...)
		result = append(result, missingLines(pair.ServerID, OriginTarget, pair.Target, texts)...)
	}
	return result, nil
}

func missingLines(serverID string, origin Origin, lines []models.LogLine, texts mapset.Set[string]) []MissingLine {
	var result []MissingLine
	for _, line := range lines {
		if line.Text == "" || texts.Contains(line.Text) {
			continue
		}
		result = append(result, MissingLine{
			ServerID:  serverID,
			Origin:    origin,
			LineIndex: line.Index,
			Text:      line.Text,
		})
	}
	return result
}

type workbookSource struct {
	wb *models.Workbook
}

func (s workbookSource) sheetNames() []string {
	return s.wb.SheetNames()
}

func (s workbookSource) texts(name string) (mapset.Set[string], error) {
	texts := mapset.NewThreadUnsafeSet[string]()
	sheet := s.wb.Sheet(name)
	if sheet == nil {
		return texts, nil
	}
	for _, c := range sheet.Cells() {
		if c.IsText() {
			texts.Add(c.Text())
		}
	}
	return texts, nil
}
