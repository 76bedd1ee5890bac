package verify

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// excelizeSource reads cell texts through excelize.
type excelizeSource struct {
	f *excelize.File
}

func openExcelize(fs afero.Fs, name string) (*excelizeSource, error) {
	r, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &excelizeSource{f: f}, nil
}

func (s *excelizeSource) Close() error {
	return s.f.Close()
}

func (s *excelizeSource) sheetNames() []string {
	return s.f.GetSheetList()
}

// texts collects the non-empty string values of a sheet. String formulas
// report their cached value; boolean, numeric, error and date cells are left out.
func (s *excelizeSource) texts(sheet string) (mapset.Set[string], error) {
	rows, err := s.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	texts := mapset.NewThreadUnsafeSet[string]()
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := s.f.GetCellType(sheet, ref)
			if err != nil {
				return nil, err
			}
			if isTextType(typ) {
				texts.Add(value)
			}
		}
	}
	return texts, nil
}

func isTextType(t excelize.CellType) bool {
	switch t {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true
	default:
		return false
	}
}
