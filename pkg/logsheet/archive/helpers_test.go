package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
)

// sampleWorkbook holds one cell of every kind the codec writes.
func sampleWorkbook() *models.Workbook {
	wb := models.NewWorkbook()

	s1 := models.NewSheet("web01")
	s1.Set(models.Cell{Row: 0, Col: 0, Value: "Log comparison"})
	s1.Set(models.Cell{Row: 4, Col: 1, Formula: &models.Formula{Expr: `RIGHT(CELL("filename",A1),3)`}, Type: models.DataTypeString})
	s1.Set(models.Cell{Row: 7, Col: 1, Value: "GET /index 200"})
	s1.Set(models.Cell{Row: 7, Col: 2, Formula: &models.Formula{Expr: "B8=D8", Cached: "1"}, Type: models.DataTypeBoolean})
	s1.Set(models.Cell{Row: 7, Col: 3, Value: "GET /index 200"})
	s1.Set(models.Cell{Row: 8, Col: 1, Value: "  indented & <tagged>  "})
	s1.Set(models.Cell{Row: 8, Col: 3, Value: "line\nbreak"})
	s1.Set(models.Cell{Row: 9, Col: 0, Value: "42", Type: models.DataTypeNumber})
	s1.Set(models.Cell{Row: 9, Col: 1, Value: "0", Type: models.DataTypeBoolean})
	s1.Set(models.Cell{Row: 10, Col: 27, Value: "far column"})

	s2 := models.NewSheet("web02")
	s2.Set(models.Cell{Row: 0, Col: 0, Value: "GET /index 200"})
	s2.Set(models.Cell{Row: 1, Col: 0, Formula: &models.Formula{Expr: "SUM(A3:A4)", Cached: "3"}})

	wb.Sheets = []*models.Sheet{s1, s2}
	return wb
}

// zipParts builds a container from name/content pairs, in order.
func zipParts(t *testing.T, parts ...string) []byte {
	t.Helper()
	require.Zero(t, len(parts)%2)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i < len(parts); i += 2 {
		w, err := zw.Create(parts[i])
		require.NoError(t, err)
		_, err = w.Write([]byte(parts[i+1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// readZipPart returns one part of an encoded document.
func readZipPart(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return b
		}
	}
	t.Fatalf("part %s not found", name)
	return nil
}
