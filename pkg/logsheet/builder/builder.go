// Package builder turns an alignment into a comparison sheet.
package builder

import (
	"fmt"

	"github.com/ukaji3/logsheet-go/pkg/logsheet/align"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"github.com/xuri/excelize/v2"
)

// Column layout of a comparison sheet (0-based).
const (
	ColSource = 1 // B
	ColDiff   = 2 // C
	ColTarget = 3 // D
	ColNote   = 4 // E
)

// HeaderRows is the number of rows in the fixed header block.
// Data rows start right after it.
const HeaderRows = 7

// Build lays out a comparison sheet for pair from its alignment ops.
// The sheet is named after the pair's server id; collision handling happens
// when the sheet is merged into a workbook.
func Build(pair models.LogPair, ops []models.AlignmentOp, tmpl HeaderTemplate) (*models.Sheet, error) {
	return BuildRows(pair, align.Rows(ops, pair.Source, pair.Target), tmpl)
}

// BuildRows lays out a comparison sheet from display rows already derived
// with align.Rows. Row i of rows lands on sheet row HeaderRows+i.
func BuildRows(pair models.LogPair, rows []align.Row, tmpl HeaderTemplate) (*models.Sheet, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	sheet := models.NewSheet(pair.ServerID)
	writeHeader(sheet, pair, tmpl)

	row := HeaderRows
	for _, r := range rows {
		if err := writeRow(sheet, row, r, tmpl); err != nil {
			return nil, err
		}
		row++
	}
	return sheet, nil
}

func writeHeader(sheet *models.Sheet, pair models.LogPair, tmpl HeaderTemplate) {
	setText(sheet, 0, 0, tmpl.Project)
	setText(sheet, 1, 0, tmpl.Title)
	setText(sheet, 3, ColSource, tmpl.ServerLabel)
	setText(sheet, 3, ColDiff, tmpl.RemarksLabel)
	sheet.Set(models.Cell{
		Row:     4,
		Col:     ColSource,
		Formula: &models.Formula{Expr: tmpl.ServerFormula},
		Type:    models.DataTypeString,
	})
	setText(sheet, 6, ColSource, tmpl.sourceLegend(pair.SourceHost))
	setText(sheet, 6, ColDiff, tmpl.DiffLabel)
	setText(sheet, 6, ColTarget, tmpl.targetLegend(pair.TargetHost))
	setText(sheet, 6, ColNote, tmpl.NoteLabel)
}

func writeRow(sheet *models.Sheet, row int, r align.Row, tmpl HeaderTemplate) error {
	if r.Source != nil {
		setText(sheet, row, ColSource, r.Source.Text)
	}
	if r.Target != nil {
		setText(sheet, row, ColTarget, r.Target.Text)
	}
	if r.Source == nil || r.Target == nil {
		return nil
	}

	expr, err := compareFormula(row)
	if err != nil {
		return err
	}
	cached := "0"
	if r.Source.Text == r.Target.Text {
		cached = "1"
	}
	sheet.Set(models.Cell{
		Row:     row,
		Col:     ColDiff,
		Formula: &models.Formula{Expr: expr, Cached: cached},
		Type:    models.DataTypeBoolean,
	})
	if cached == "0" {
		setText(sheet, row, ColNote, tmpl.DiffNote)
	}
	return nil
}

// compareFormula returns "B{n}=D{n}" for the 0-based row.
func compareFormula(row int) (string, error) {
	left, err := excelize.CoordinatesToCellName(ColSource+1, row+1)
	if err != nil {
		return "", fmt.Errorf("comparison formula for row %d: %w", row+1, err)
	}
	right, err := excelize.CoordinatesToCellName(ColTarget+1, row+1)
	if err != nil {
		return "", fmt.Errorf("comparison formula for row %d: %w", row+1, err)
	}
	return left + "=" + right, nil
}

// setText stores a plain text cell. Empty text leaves the cell blank.
func setText(sheet *models.Sheet, row, col int, text string) {
	if text == "" {
		return
	}
	sheet.Set(models.Cell{Row: row, Col: col, Value: text})
}
