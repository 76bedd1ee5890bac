package builder

import "fmt"

// DefaultServerFormula derives the server label from the sheet's own name when
// the workbook is opened in a spreadsheet application.
const DefaultServerFormula = `RIGHT(CELL("filename",A1),LEN(CELL("filename",A1))-FIND("]",CELL("filename",A1)))`

// HeaderTemplate holds the fixed texts of a comparison sheet's header block.
type HeaderTemplate struct {
	// Project is written to A1.
	Project string `mapstructure:"project"`
	// Title is written to A2.
	Title string `mapstructure:"title"`
	// ServerLabel is written to B4, above the server formula.
	ServerLabel string `mapstructure:"server-label"`
	// RemarksLabel is written to C4.
	RemarksLabel string `mapstructure:"remarks-label"`
	// ServerFormula is written to B5 and emitted verbatim.
	ServerFormula string `mapstructure:"server-formula"`
	// SourceLabel prefixes the source host in the legend row.
	SourceLabel string `mapstructure:"source-label"`
	// DiffLabel heads the comparison column.
	DiffLabel string `mapstructure:"diff-label"`
	// TargetLabel prefixes the target host in the legend row.
	TargetLabel string `mapstructure:"target-label"`
	// NoteLabel heads the note column.
	NoteLabel string `mapstructure:"note-label"`
	// DiffNote is written to the note column of rows that differ.
	DiffNote string `mapstructure:"diff-note"`
}

// DefaultHeaderTemplate returns the stock header texts.
func DefaultHeaderTemplate() HeaderTemplate {
	return HeaderTemplate{
		Project:       "Log comparison",
		Title:         "Source / target log reconciliation",
		ServerLabel:   "Target server",
		RemarksLabel:  "Remarks",
		ServerFormula: DefaultServerFormula,
		SourceLabel:   "Current server",
		DiffLabel:     "Match",
		TargetLabel:   "New platform",
		NoteLabel:     "Remarks",
		DiffNote:      "Differs",
	}
}

// Validate checks that the server formula is well formed.
func (h HeaderTemplate) Validate() error {
	if err := checkFormula(h.ServerFormula); err != nil {
		return fmt.Errorf("header server formula: %w", err)
	}
	return nil
}

func (h HeaderTemplate) sourceLegend(host string) string {
	return legend(h.SourceLabel, host)
}

func (h HeaderTemplate) targetLegend(host string) string {
	return legend(h.TargetLabel, host)
}

func legend(label, host string) string {
	if host == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, host)
}
