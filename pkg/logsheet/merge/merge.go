package merge

import (
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"go.uber.org/multierr"
)

// Merge appends sheets to a copy of existing and returns it.
//
// Existing sheets keep their names, order and contents, and the existing
// string table is cloned rather than modified. Each incoming sheet is renamed
// to the first free version of its name (srv01, srv01.v2, srv01.v3, ...).
// A sheet whose base name is illegal is skipped; the returned error combines
// one *IllegalSheetNameError per skipped sheet, and the workbook is returned
// either way.
func Merge(existing *models.Workbook, sheets []*models.Sheet) (*models.Workbook, error) {
	wb := models.NewWorkbook()
	taken := NewNameSet()
	if existing != nil {
		if existing.Strings != nil {
			wb.Strings = existing.Strings.Clone()
		}
		wb.Sheets = append(wb.Sheets, existing.Sheets...)
		for _, s := range existing.Sheets {
			taken.Add(s.Name)
		}
	}

	var errs error
	for _, s := range sheets {
		if err := ValidateSheetName(s.Name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.Name = VersionedName(s.Name, taken)
		if err := wb.AddSheet(s); err != nil {
			errs = multierr.Append(errs, NewIllegalSheetNameError(s.Name, err))
			continue
		}
		taken.Add(s.Name)
	}
	return wb, errs
}
