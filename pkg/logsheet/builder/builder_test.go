package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/align"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
)

func newPair(source, target []string) models.LogPair {
	return models.LogPair{
		ServerID:   "web01",
		SourceHost: "web01s",
		TargetHost: "web01p",
		Source:     models.NewLogLines(source),
		Target:     models.NewLogLines(target),
	}
}

func build(t *testing.T, pair models.LogPair) *models.Sheet {
	t.Helper()
	ops := align.Align(models.Texts(pair.Source), models.Texts(pair.Target))
	sheet, err := Build(pair, ops, DefaultHeaderTemplate())
	require.NoError(t, err)
	return sheet
}

func TestBuildHeader(t *testing.T) {
	sheet := build(t, newPair([]string{"a"}, []string{"a"}))
	tmpl := DefaultHeaderTemplate()

	assert.Equal(t, "web01", sheet.Name)

	tests := []struct {
		row, col int
		expected string
	}{
		{0, 0, tmpl.Project},
		{1, 0, tmpl.Title},
		{3, ColSource, tmpl.ServerLabel},
		{3, ColDiff, tmpl.RemarksLabel},
		{6, ColSource, "Current server (web01s)"},
		{6, ColDiff, tmpl.DiffLabel},
		{6, ColTarget, "New platform (web01p)"},
		{6, ColNote, tmpl.NoteLabel},
	}
	for _, tt := range tests {
		c, ok := sheet.Cell(tt.row, tt.col)
		require.True(t, ok, "cell (%d,%d) missing", tt.row, tt.col)
		assert.Equal(t, tt.expected, c.Value)
		assert.False(t, c.IsFormula())
	}

	label, ok := sheet.Cell(4, ColSource)
	require.True(t, ok)
	require.True(t, label.IsFormula())
	assert.Equal(t, DefaultServerFormula, label.Formula.Expr)
	assert.Equal(t, models.DataTypeString, label.Type)
	assert.Equal(t, "", label.Formula.Cached)
}

func TestBuildComparisonRows(t *testing.T) {
	source := []string{"l1", "l2", "l3", "l4", "l5", "old"}
	target := []string{"l1", "l2", "l3", "new", "l4", "l5"}
	sheet := build(t, newPair(source, target))

	// "new" is inserted after l3 and "old" deleted at the end.
	var formulas, falses int
	for _, c := range sheet.Cells() {
		if c.Row < HeaderRows || c.Col != ColDiff {
			continue
		}
		require.True(t, c.IsFormula())
		formulas++
		if c.Formula.Cached == "0" {
			falses++
		}
	}
	assert.Equal(t, 5, formulas)
	assert.Equal(t, 0, falses)

	insert, ok := sheet.Cell(HeaderRows+3, ColTarget)
	require.True(t, ok)
	assert.Equal(t, "new", insert.Value)
	_, ok = sheet.Cell(HeaderRows+3, ColSource)
	assert.False(t, ok, "insert rows only carry the target line")
	_, ok = sheet.Cell(HeaderRows+3, ColDiff)
	assert.False(t, ok)

	deleted, ok := sheet.Cell(HeaderRows+6, ColSource)
	require.True(t, ok)
	assert.Equal(t, "old", deleted.Value)
	_, ok = sheet.Cell(HeaderRows+6, ColTarget)
	assert.False(t, ok, "delete rows only carry the source line")
}

func TestBuildOneDifferingLine(t *testing.T) {
	source := []string{"a", "b", "c", "d", "e", "f"}
	target := []string{"a", "b", "X", "d", "e", "f"}
	sheet := build(t, newPair(source, target))

	maxRow, _ := sheet.Bounds()
	assert.Equal(t, HeaderRows+5, maxRow, "six data rows")

	var trues, falses int
	for row := HeaderRows; row <= maxRow; row++ {
		c, ok := sheet.Cell(row, ColDiff)
		require.True(t, ok, "row %d has no comparison", row+1)
		assert.Equal(t, models.DataTypeBoolean, c.Type)

		refs, err := FormulaRefs(c.Formula.Expr)
		require.NoError(t, err)
		expected, err := compareFormula(row)
		require.NoError(t, err)
		assert.Equal(t, expected, c.Formula.Expr)
		require.Len(t, refs, 2)

		switch c.Formula.Cached {
		case "1":
			trues++
		case "0":
			falses++
			note, ok := sheet.Cell(row, ColNote)
			require.True(t, ok)
			assert.Equal(t, DefaultHeaderTemplate().DiffNote, note.Value)
			assert.Equal(t, HeaderRows+2, row)
		}
	}
	assert.Equal(t, 5, trues)
	assert.Equal(t, 1, falses)
}

func TestBuildSkipsEmptyLines(t *testing.T) {
	sheet := build(t, newPair([]string{"", "a"}, []string{"", "a"}))

	_, ok := sheet.Cell(HeaderRows, ColSource)
	assert.False(t, ok)
	c, ok := sheet.Cell(HeaderRows, ColDiff)
	require.True(t, ok)
	assert.Equal(t, "1", c.Formula.Cached)
}

func TestBuildRejectsBadTemplate(t *testing.T) {
	tmpl := DefaultHeaderTemplate()
	tmpl.ServerFormula = "  "

	_, err := Build(newPair(nil, nil), nil, tmpl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormula))
}

func TestFormulaRefs(t *testing.T) {
	tests := []struct {
		expr     string
		expected []string
	}{
		{"B8=D8", []string{"B8", "D8"}},
		{"=B12=D12", []string{"B12", "D12"}},
		{`CELL("filename",A1)`, []string{"A1"}},
	}
	for _, tt := range tests {
		refs, err := FormulaRefs(tt.expr)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, refs, "FormulaRefs(%q)", tt.expr)
	}
}

func TestComparisonResult(t *testing.T) {
	sheet := build(t, newPair([]string{"a", "b"}, []string{"a", "c"}))
	match, ok := sheet.Cell(HeaderRows, ColDiff)
	require.True(t, ok)
	differ, ok := sheet.Cell(HeaderRows+1, ColDiff)
	require.True(t, ok)

	tests := []struct {
		name  string
		cell  models.Cell
		equal bool
		ok    bool
	}{
		{"match", match, true, true},
		{"differ", differ, false, true},
		{"wrong row", models.Cell{Row: 9, Col: ColDiff, Formula: &models.Formula{Expr: "B8=D8", Cached: "0"}}, false, false},
		{"other column", models.Cell{Row: 7, Col: ColNote, Formula: &models.Formula{Expr: "B8=D8", Cached: "0"}}, false, false},
		{"plain value", models.Cell{Row: 7, Col: ColDiff, Value: "0"}, false, false},
	}
	for _, tt := range tests {
		equal, ok := ComparisonResult(tt.cell)
		assert.Equal(t, tt.equal, equal, tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
	}
}

func TestCheckFormula(t *testing.T) {
	assert.NoError(t, checkFormula(DefaultServerFormula))
	assert.NoError(t, checkFormula("B8=D8"))
	assert.Error(t, checkFormula(""))
	assert.Error(t, checkFormula("="))
}
