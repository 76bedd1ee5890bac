package archive

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"github.com/xuri/excelize/v2"
)

// part is one named entry of the container.
type part struct {
	name string
	data []byte
}

// Encode serializes wb into XLSX bytes. Strings not yet in the workbook's
// shared-string table are appended to it in row-major first-use order.
func Encode(wb *models.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, wb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes wb into w. Equal workbooks produce equal bytes.
func Write(w io.Writer, wb *models.Workbook) error {
	parts, err := encodeParts(wb)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return fmt.Errorf("create part %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("write part %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

// WriteFile encodes wb completely in memory, then replaces name with it
// through a temporary file in the same directory. name is left untouched
// when anything fails.
func WriteFile(fs afero.Fs, name string, wb *models.Workbook) (err error) {
	data, err := Encode(wb)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, filepath.Dir(name), "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return fs.Rename(tmp.Name(), name)
}

func encodeParts(wb *models.Workbook) ([]part, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	if wb.Strings == nil {
		wb.Strings = models.NewSharedStrings()
	}

	// Sheets go first: they intern the strings the table part serializes.
	sheetParts := make([]part, len(wb.Sheets))
	refs := 0
	for i, s := range wb.Sheets {
		data, n, err := encodeSheet(s, wb.Strings)
		if err != nil {
			return nil, fmt.Errorf("encode sheet %q: %w", s.Name, err)
		}
		sheetParts[i] = part{name: sheetPartName(i), data: data}
		refs += n
	}

	var parts []part
	for _, p := range []struct {
		name string
		v    interface{}
	}{
		{partContentTypes, contentTypes(len(wb.Sheets))},
		{partRootRels, rootRels()},
		{partWorkbook, workbook(wb)},
		{partWorkbookRels, workbookRels(len(wb.Sheets))},
	} {
		data, err := marshal(p.v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.name, err)
		}
		parts = append(parts, part{name: p.name, data: data})
	}
	parts = append(parts, part{name: partStyles, data: []byte(stylesXML)})

	sst, err := marshal(sharedStrings(wb.Strings, refs))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", partSharedStrings, err)
	}
	parts = append(parts, part{name: partSharedStrings, data: sst})

	return append(parts, sheetParts...), nil
}

func marshal(v interface{}) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), data...), nil
}

func sheetPartName(i int) string {
	return "xl/worksheets/sheet" + strconv.Itoa(i+1) + ".xml"
}

func contentTypes(sheets int) xlsxTypes {
	t := xlsxTypes{
		Defaults: []xlsxDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []xlsxOverride{
			{PartName: "/" + partWorkbook, ContentType: ctWorkbook},
			{PartName: "/" + partStyles, ContentType: ctStyles},
			{PartName: "/" + partSharedStrings, ContentType: ctSharedStrings},
		},
	}
	for i := 0; i < sheets; i++ {
		t.Overrides = append(t.Overrides, xlsxOverride{PartName: "/" + sheetPartName(i), ContentType: ctWorksheet})
	}
	return t
}

func rootRels() xlsxRelationships {
	return xlsxRelationships{Relationships: []xlsxRelationship{
		{ID: "rId1", Type: relOfficeDocument, Target: partWorkbook},
	}}
}

// workbookRels wires rId1..rIdN to the sheets, followed by styles and shared strings.
func workbookRels(sheets int) xlsxRelationships {
	var rels xlsxRelationships
	for i := 0; i < sheets; i++ {
		rels.Relationships = append(rels.Relationships, xlsxRelationship{
			ID:     sheetRelID(i),
			Type:   relWorksheet,
			Target: "worksheets/sheet" + strconv.Itoa(i+1) + ".xml",
		})
	}
	rels.Relationships = append(rels.Relationships,
		xlsxRelationship{ID: sheetRelID(sheets), Type: relStyles, Target: "styles.xml"},
		xlsxRelationship{ID: sheetRelID(sheets + 1), Type: relSharedStrings, Target: "sharedStrings.xml"},
	)
	return rels
}

func sheetRelID(i int) string {
	return "rId" + strconv.Itoa(i+1)
}

func workbook(wb *models.Workbook) xlsxWorkbook {
	x := xlsxWorkbook{XMLNSR: nsR}
	for i, s := range wb.Sheets {
		x.Sheets = append(x.Sheets, xlsxSheetRef{Name: s.Name, SheetID: i + 1, RID: sheetRelID(i)})
	}
	return x
}

func sharedStrings(table *models.SharedStrings, refs int) xlsxSST {
	sst := xlsxSST{Count: refs, UniqueCount: table.Len()}
	for _, v := range table.Values() {
		sst.SI = append(sst.SI, xlsxSI{T: textElement(v)})
	}
	return sst
}

// encodeSheet returns the worksheet part and the number of shared-string references in it.
func encodeSheet(s *models.Sheet, table *models.SharedStrings) ([]byte, int, error) {
	ws := xlsxWorksheet{}
	refs := 0

	if maxRow, maxCol := s.Bounds(); maxRow >= 0 {
		ref, err := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
		if err != nil {
			return nil, 0, err
		}
		ws.Dimension = &xlsxDimension{Ref: "A1:" + ref}
	}

	for _, c := range s.Cells() {
		ref, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
		if err != nil {
			return nil, 0, err
		}
		n := len(ws.SheetData.Rows)
		if n == 0 || ws.SheetData.Rows[n-1].R != c.Row+1 {
			ws.SheetData.Rows = append(ws.SheetData.Rows, xlsxRow{R: c.Row + 1})
			n++
		}
		row := &ws.SheetData.Rows[n-1]

		xc := xlsxC{R: ref}
		switch {
		case c.IsFormula():
			xc.T = formulaType(c.Type)
			xc.F = &xlsxF{
				T:       c.Formula.Kind,
				Ref:     c.Formula.Ref,
				SI:      c.Formula.SharedIndex,
				Content: c.Formula.Expr,
			}
			cached := c.Formula.Cached
			if c.Type == models.DataTypeString {
				cached = escapeText(cached)
			}
			xc.V = &cached
		case c.Type == models.DataTypeBoolean:
			xc.T = cellTypeBoolean
			v := c.Value
			xc.V = &v
		case c.Type == models.DataTypeNumber:
			v := c.Value
			xc.V = &v
		case c.Type == models.DataTypeError, c.Type == models.DataTypeDate:
			xc.T = formulaType(c.Type)
			v := c.Value
			xc.V = &v
		default:
			xc.T = cellTypeShared
			v := strconv.Itoa(table.Intern(c.Value))
			xc.V = &v
			refs++
		}
		row.Cells = append(row.Cells, xc)
	}

	data, err := marshal(ws)
	return data, refs, err
}

func formulaType(t models.DataType) string {
	switch t {
	case models.DataTypeBoolean:
		return cellTypeBoolean
	case models.DataTypeString:
		return cellTypeString
	case models.DataTypeError:
		return cellTypeError
	case models.DataTypeDate:
		return cellTypeDate
	default:
		return ""
	}
}
