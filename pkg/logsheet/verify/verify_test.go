package verify

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/align"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/archive"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/builder"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
)

func testPair(serverID string, source, target []string) models.LogPair {
	return models.LogPair{
		ServerID:   serverID,
		SourceHost: serverID + "s",
		TargetHost: serverID + "p",
		Source:     models.NewLogLines(source),
		Target:     models.NewLogLines(target),
	}
}

func buildWorkbook(t *testing.T, pairs ...models.LogPair) *models.Workbook {
	t.Helper()
	wb := models.NewWorkbook()
	for _, pair := range pairs {
		ops := align.Align(models.Texts(pair.Source), models.Texts(pair.Target))
		sheet, err := builder.Build(pair, ops, builder.DefaultHeaderTemplate())
		require.NoError(t, err)
		require.NoError(t, wb.AddSheet(sheet))
	}
	return wb
}

func deleteText(t *testing.T, sheet *models.Sheet, col int, text string) {
	t.Helper()
	for _, c := range sheet.Cells() {
		if c.Col == col && c.Value == text {
			sheet.Delete(c.Row, c.Col)
			return
		}
	}
	t.Fatalf("no cell %q in column %d", text, col)
}

func TestDocumentComplete(t *testing.T) {
	pair := testPair("web01", []string{"A", "B", "C"}, []string{"A", "X", "C"})
	wb := buildWorkbook(t, pair)
	assert.Empty(t, Document(wb, []models.LogPair{pair}))
}

func TestDocumentReportsDeletedCell(t *testing.T) {
	pair := testPair("web01", []string{"A", "B", "C"}, []string{"A", "X", "C"})
	wb := buildWorkbook(t, pair)
	deleteText(t, wb.Sheets[0], builder.ColSource, "B")

	result := Document(wb, []models.LogPair{pair})
	assert.Equal(t, []MissingLine{{ServerID: "web01", Origin: OriginSource, LineIndex: 1, Text: "B"}}, result)
}

func TestDocumentIgnoresComparisonResults(t *testing.T) {
	pair := testPair("web01", []string{"0"}, []string{"1"})
	wb := buildWorkbook(t, pair)
	deleteText(t, wb.Sheets[0], builder.ColSource, "0")
	deleteText(t, wb.Sheets[0], builder.ColTarget, "1")

	expected := []MissingLine{
		{ServerID: "web01", Origin: OriginSource, LineIndex: 0, Text: "0"},
		{ServerID: "web01", Origin: OriginTarget, LineIndex: 0, Text: "1"},
	}
	assert.Equal(t, expected, Document(wb, []models.LogPair{pair}))

	fs := afero.NewMemMapFs()
	require.NoError(t, archive.WriteFile(fs, "/out/comparison.xlsx", wb))
	for _, reader := range []Reader{ReaderNative, ReaderExcelize} {
		t.Run(string(reader), func(t *testing.T) {
			result, err := File(fs, "/out/comparison.xlsx", []models.LogPair{pair}, reader)
			require.NoError(t, err)
			assert.Equal(t, expected, result)
		})
	}
}

func TestDocumentSkipsEmptyLines(t *testing.T) {
	pair := testPair("web01", []string{"A", "", "C"}, []string{"A", "C", ""})
	wb := buildWorkbook(t, pair)
	assert.Empty(t, Document(wb, []models.LogPair{pair}))
}

func TestDocumentMissingSheet(t *testing.T) {
	present := testPair("web01", []string{"A"}, []string{"A"})
	absent := testPair("web02", []string{"x", ""}, []string{"y"})
	wb := buildWorkbook(t, present)

	result := Document(wb, []models.LogPair{present, absent})
	assert.Equal(t, []MissingLine{
		{ServerID: "web02", Origin: OriginSource, LineIndex: 0, Text: "x"},
		{ServerID: "web02", Origin: OriginTarget, LineIndex: 0, Text: "y"},
	}, result)
}

func TestDocumentUsesNewestVersion(t *testing.T) {
	old := testPair("web01", []string{"old line"}, []string{"old line"})
	current := testPair("web01", []string{"new line"}, []string{"new line"})
	wb := buildWorkbook(t, old)
	newer := buildWorkbook(t, current).Sheets[0]
	newer.Name = "web01.v2"
	require.NoError(t, wb.AddSheet(newer))

	assert.Empty(t, Document(wb, []models.LogPair{current}))
	result := Document(wb, []models.LogPair{old})
	assert.Len(t, result, 2, "old lines are not in the newest sheet")
}

func TestFile(t *testing.T) {
	pair := testPair("web01", []string{"A", "B", "C", "  indented"}, []string{"A", "X", "C", "  indented"})
	wb := buildWorkbook(t, pair)

	fs := afero.NewMemMapFs()
	require.NoError(t, archive.WriteFile(fs, "/out/comparison.xlsx", wb))

	for _, reader := range []Reader{ReaderNative, ReaderExcelize} {
		t.Run(string(reader), func(t *testing.T) {
			result, err := File(fs, "/out/comparison.xlsx", []models.LogPair{pair}, reader)
			require.NoError(t, err)
			assert.Empty(t, result)
		})
	}

	deleteText(t, wb.Sheets[0], builder.ColTarget, "X")
	require.NoError(t, archive.WriteFile(fs, "/out/comparison.xlsx", wb))
	expected := []MissingLine{{ServerID: "web01", Origin: OriginTarget, LineIndex: 1, Text: "X"}}
	for _, reader := range []Reader{ReaderNative, ReaderExcelize} {
		t.Run(string(reader)+" missing", func(t *testing.T) {
			result, err := File(fs, "/out/comparison.xlsx", []models.LogPair{pair}, reader)
			require.NoError(t, err)
			assert.Equal(t, expected, result)
		})
	}
}

func TestFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := File(fs, "/nope.xlsx", nil, ReaderNative)
	assert.Error(t, err)
	_, err = File(fs, "/nope.xlsx", nil, ReaderExcelize)
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.xlsx", []byte("not a zip"), 0o644))
	_, err = File(fs, "/bad.xlsx", nil, ReaderNative)
	var corrupt *archive.CorruptArchiveError
	assert.ErrorAs(t, err, &corrupt)
}

func TestParseReader(t *testing.T) {
	tests := []struct {
		input    string
		expected Reader
		wantErr  bool
	}{
		{"", ReaderNative, false},
		{"native", ReaderNative, false},
		{"Excelize", ReaderExcelize, false},
		{"openpyxl", "", true},
	}
	for _, tt := range tests {
		result, err := ParseReader(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, result)
	}
}
