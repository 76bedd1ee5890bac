package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"\x1b[31mred\x1b[0m", "_x001B_[31mred_x001B_[0m"},
		{"bell\x07", "bell_x0007_"},
		{"_x0041_", "_x005F_x0041_"},
		{"_xZZ_ stays", "_xZZ_ stays"},
	}
	for _, tt := range tests {
		result := escapeText(tt.input)
		if result != tt.expected {
			t.Errorf("escapeText(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
		if back := unescapeText(result); back != tt.input {
			t.Errorf("unescapeText(%q) = %q, expected %q", result, back, tt.input)
		}
	}
}

func TestControlCharactersRoundTrip(t *testing.T) {
	wb := models.NewWorkbook()
	s := models.NewSheet("ansi")
	s.Set(models.Cell{Row: 0, Col: 0, Value: "\x1b[1mbold\x1b[0m"})
	s.Set(models.Cell{Row: 0, Col: 1, Value: "literal _x001B_"})
	s.Set(models.Cell{Row: 0, Col: 2, Formula: &models.Formula{Expr: `"a"`, Cached: "nul\x00"}, Type: models.DataTypeString})
	wb.Sheets = append(wb.Sheets, s)

	data, err := Encode(wb)
	require.NoError(t, err)
	got, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, s.Cells(), got.Sheets[0].Cells())
}
