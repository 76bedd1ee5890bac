package archive

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"github.com/xuri/excelize/v2"
)

// sheetEntry is a sheet declared in workbook.xml.
type sheetEntry struct {
	name string
	rID  string
}

// relationship is one entry of a .rels part.
type relationship struct {
	typ    string
	target string
}

// ReadFile opens and decodes the document at name.
func ReadFile(fs afero.Fs, name string) (*models.Workbook, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Decode(f, fi.Size())
}

// DecodeBytes decodes an in-memory document.
func DecodeBytes(data []byte) (*models.Workbook, error) {
	return Decode(bytes.NewReader(data), int64(len(data)))
}

// Decode reads a document. Sheets keep their declared order, string-table
// references are resolved to text and formulas keep their text, attributes
// and cached values. Any structural problem yields a *CorruptArchiveError.
func Decode(r io.ReaderAt, size int64) (*models.Workbook, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, NewCorruptArchiveError("", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[strings.TrimPrefix(f.Name, "/")] = f
	}

	overrides, err := readContentTypes(files)
	if err != nil {
		return nil, err
	}

	workbookPath, err := findWorkbook(files, overrides)
	if err != nil {
		return nil, err
	}

	wbXML, err := readPart(files, workbookPath)
	if err != nil {
		return nil, err
	}
	sheets, err := parseWorkbookSheets(wbXML)
	if err != nil {
		return nil, NewCorruptArchiveError(workbookPath, err)
	}

	relsPath := relsPathFor(workbookPath)
	relsXML, err := readPart(files, relsPath)
	if err != nil {
		return nil, err
	}
	rels, err := parseRels(relsXML)
	if err != nil {
		return nil, NewCorruptArchiveError(relsPath, err)
	}

	wb := models.NewWorkbook()
	if err := loadSharedStrings(files, workbookPath, rels, wb.Strings); err != nil {
		return nil, err
	}

	for _, entry := range sheets {
		rel, ok := rels[entry.rID]
		if !ok {
			return nil, NewCorruptArchiveError(relsPath, fmt.Errorf("no relationship %q for sheet %q", entry.rID, entry.name))
		}
		sheetPath := resolveRelativePath(rel.target, workbookPath)
		data, err := readPart(files, sheetPath)
		if err != nil {
			return nil, err
		}
		sheet, err := parseSheet(data, entry.name, wb.Strings)
		if err != nil {
			return nil, NewCorruptArchiveError(sheetPath, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

func readPart(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, NewCorruptArchiveError(name, ErrPartNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, NewCorruptArchiveError(name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewCorruptArchiveError(name, err)
	}
	return data, nil
}

// readContentTypes parses the manifest and returns its overrides (part name -> content type).
func readContentTypes(files map[string]*zip.File) (map[string]string, error) {
	data, err := readPart(files, partContentTypes)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string)
	root := ""
	err = walkElements(data, func(_ *xml.Decoder, se xml.StartElement) error {
		if root == "" {
			root = se.Name.Local
		}
		if se.Name.Local == "Override" {
			overrides[strings.TrimPrefix(attr(se, "PartName"), "/")] = attr(se, "ContentType")
		}
		return nil
	})
	if err == nil && root != "Types" {
		err = fmt.Errorf("unexpected root element %q", root)
	}
	if err != nil {
		return nil, NewCorruptArchiveError(partContentTypes, err)
	}
	return overrides, nil
}

// findWorkbook locates the workbook part through the package relationships,
// falling back to the manifest.
func findWorkbook(files map[string]*zip.File, overrides map[string]string) (string, error) {
	if _, ok := files[partRootRels]; ok {
		data, err := readPart(files, partRootRels)
		if err != nil {
			return "", err
		}
		rels, err := parseRels(data)
		if err != nil {
			return "", NewCorruptArchiveError(partRootRels, err)
		}
		for _, id := range sortedIDs(rels) {
			if strings.HasSuffix(rels[id].typ, "/officeDocument") {
				return resolveRelativePath(rels[id].target, ""), nil
			}
		}
	}
	for name, ct := range overrides {
		if ct == ctWorkbook {
			return name, nil
		}
	}
	return "", NewCorruptArchiveError(partRootRels, fmt.Errorf("no workbook: %w", ErrPartNotFound))
}

func loadSharedStrings(files map[string]*zip.File, workbookPath string, rels map[string]relationship, table *models.SharedStrings) error {
	sstPath := ""
	for _, id := range sortedIDs(rels) {
		if strings.HasSuffix(rels[id].typ, "/sharedStrings") {
			sstPath = resolveRelativePath(rels[id].target, workbookPath)
			break
		}
	}
	if sstPath == "" {
		if _, ok := files[partSharedStrings]; !ok {
			return nil
		}
		sstPath = partSharedStrings
	}

	data, err := readPart(files, sstPath)
	if err != nil {
		return err
	}
	err = walkElements(data, func(decoder *xml.Decoder, se xml.StartElement) error {
		if se.Name.Local != "si" {
			return nil
		}
		text, err := readRichText(decoder)
		if err != nil {
			return err
		}
		table.Append(unescapeText(text))
		return nil
	})
	if err != nil {
		return NewCorruptArchiveError(sstPath, err)
	}
	return nil
}

// parseWorkbookSheets returns the sheets of workbook.xml in declared order.
func parseWorkbookSheets(data []byte) ([]sheetEntry, error) {
	var result []sheetEntry
	err := walkElements(data, func(_ *xml.Decoder, se xml.StartElement) error {
		if se.Name.Local != "sheet" {
			return nil
		}
		var name, rID string
		for _, a := range se.Attr {
			switch {
			case a.Name.Local == "name":
				name = a.Value
			case a.Name.Local == "id" && (a.Name.Space == nsR || a.Name.Space == "r" || strings.HasSuffix(a.Name.Space, "/relationships")):
				rID = a.Value
			}
		}
		if name == "" || rID == "" {
			return fmt.Errorf("sheet element without name or relationship id")
		}
		result = append(result, sheetEntry{name: name, rID: rID})
		return nil
	})
	return result, err
}

// parseRels parses a relationships part into id -> relationship.
func parseRels(data []byte) (map[string]relationship, error) {
	result := make(map[string]relationship)
	err := walkElements(data, func(_ *xml.Decoder, se xml.StartElement) error {
		if se.Name.Local != "Relationship" {
			return nil
		}
		if strings.EqualFold(attr(se, "TargetMode"), "External") {
			return nil
		}
		result[attr(se, "Id")] = relationship{typ: attr(se, "Type"), target: attr(se, "Target")}
		return nil
	})
	return result, err
}

func sortedIDs(rels map[string]relationship) []string {
	ids := make([]string, 0, len(rels))
	for id := range rels {
		ids = append(ids, id)
	}
	// rId2 before rId10
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// resolveRelativePath resolves a relationship target against the part that owns it.
func resolveRelativePath(target, source string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}

// relsPathFor returns the relationships part of a part: xl/workbook.xml -> xl/_rels/workbook.xml.rels.
func relsPathFor(name string) string {
	return path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
}

// parseSheet decodes the cells of a worksheet part.
func parseSheet(data []byte, name string, table *models.SharedStrings) (*models.Sheet, error) {
	sheet := models.NewSheet(name)
	row, col := -1, -1

	err := walkElements(data, func(decoder *xml.Decoder, se xml.StartElement) error {
		switch se.Name.Local {
		case "row":
			row++
			if r := attr(se, "r"); r != "" {
				n, err := strconv.Atoi(r)
				if err != nil || n < 1 {
					return fmt.Errorf("invalid row number %q", r)
				}
				row = n - 1
			}
			col = -1
		case "c":
			c, ok, err := parseCell(decoder, se, row, col, table)
			if err != nil {
				return err
			}
			col = c.Col
			if ok {
				sheet.Set(c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// parseCell decodes one <c> element. ok is false for cells without content.
func parseCell(decoder *xml.Decoder, se xml.StartElement, row, prevCol int, table *models.SharedStrings) (cell models.Cell, ok bool, err error) {
	cell = models.Cell{Row: row, Col: prevCol + 1}
	if ref := attr(se, "r"); ref != "" {
		col, r, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			return cell, false, err
		}
		cell.Row, cell.Col = r-1, col-1
	}
	if cell.Row < 0 {
		return cell, false, fmt.Errorf("cell outside of a row")
	}
	typ := attr(se, "t")

	var (
		formula       *models.Formula
		value, inline string
		hasValue      bool
		hasInline     bool
	)
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return cell, false, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "f":
				text, err := readElementText(decoder)
				if err != nil {
					return cell, false, err
				}
				formula = &models.Formula{
					Expr:        text,
					Kind:        attr(t, "t"),
					Ref:         attr(t, "ref"),
					SharedIndex: attr(t, "si"),
				}
			case "v":
				if value, err = readElementText(decoder); err != nil {
					return cell, false, err
				}
				hasValue = true
			case "is":
				if inline, err = readRichText(decoder); err != nil {
					return cell, false, err
				}
				hasInline = true
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}

	if formula != nil {
		switch typ {
		case cellTypeBoolean:
			cell.Type = models.DataTypeBoolean
		case cellTypeString:
			cell.Type = models.DataTypeString
			value = unescapeText(value)
		case cellTypeError:
			cell.Type = models.DataTypeError
		case cellTypeDate:
			cell.Type = models.DataTypeDate
		}
		formula.Cached = value
		cell.Formula = formula
		return cell, true, nil
	}

	switch typ {
	case cellTypeShared:
		if !hasValue {
			return cell, false, nil
		}
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return cell, false, fmt.Errorf("cell %d,%d: invalid shared string index %q", cell.Row+1, cell.Col+1, value)
		}
		text, found := table.At(idx)
		if !found {
			return cell, false, fmt.Errorf("cell %d,%d: shared string index %d out of range", cell.Row+1, cell.Col+1, idx)
		}
		cell.Value = text
	case cellTypeInline:
		if !hasInline {
			return cell, false, nil
		}
		cell.Value = unescapeText(inline)
	case cellTypeString:
		if !hasValue {
			return cell, false, nil
		}
		cell.Value = unescapeText(value)
	case cellTypeError, cellTypeDate:
		if !hasValue {
			return cell, false, nil
		}
		cell.Value = value
		cell.Type = models.DataTypeError
		if typ == cellTypeDate {
			cell.Type = models.DataTypeDate
		}
	case cellTypeBoolean:
		if !hasValue {
			return cell, false, nil
		}
		cell.Value = value
		cell.Type = models.DataTypeBoolean
	default:
		if !hasValue {
			return cell, false, nil
		}
		cell.Value = value
		cell.Type = models.DataTypeNumber
		if typ != "" && typ != cellTypeNumber {
			// unknown types are kept as text
			cell.Type = models.DataTypeNone
		}
	}
	return cell, true, nil
}
