package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateSheet indicates a sheet name is already used in the workbook.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// Workbook owns an ordered list of sheets and the shared-string table they use.
type Workbook struct {
	// Sheets is in display order.
	Sheets []*Sheet
	// Strings is the workbook's shared-string table.
	Strings *SharedStrings
}

// NewWorkbook creates an empty workbook with an empty string table.
func NewWorkbook() *Workbook {
	return &Workbook{Strings: NewSharedStrings()}
}

// Sheet returns the sheet with the given name, or nil.
// Sheet names compare case-insensitively, as spreadsheet applications do.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// SheetNames returns the sheet names in display order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// AddSheet appends s and registers its string values in the shared-string table.
func (w *Workbook) AddSheet(s *Sheet) error {
	if w.Sheet(s.Name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateSheet, s.Name)
	}
	if w.Strings == nil {
		w.Strings = NewSharedStrings()
	}
	for _, c := range s.Cells() {
		if c.IsSharedString() {
			w.Strings.Intern(c.Value)
		}
	}
	w.Sheets = append(w.Sheets, s)
	return nil
}

// IsSharedString reports whether the cell is stored through the shared-string table.
func (c Cell) IsSharedString() bool {
	return c.Formula == nil && (c.Type == DataTypeNone || c.Type == DataTypeString)
}
