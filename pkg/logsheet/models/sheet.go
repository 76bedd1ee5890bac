package models

import "sort"

// Sheet is a named grid of cells keyed by (row, column).
type Sheet struct {
	// Name is the sheet name shown on the tab.
	Name string

	cells map[Coord]Cell
}

// NewSheet creates an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:  name,
		cells: make(map[Coord]Cell),
	}
}

// Set stores c, replacing any cell already at the same coordinates.
func (s *Sheet) Set(c Cell) {
	if s.cells == nil {
		s.cells = make(map[Coord]Cell)
	}
	s.cells[c.coord()] = c
}

// Cell returns the cell at row, col.
func (s *Sheet) Cell(row, col int) (Cell, bool) {
	c, ok := s.cells[Coord{Row: row, Col: col}]
	return c, ok
}

// Delete removes the cell at row, col if present.
func (s *Sheet) Delete(row, col int) {
	delete(s.cells, Coord{Row: row, Col: col})
}

// Len returns the number of cells.
func (s *Sheet) Len() int {
	return len(s.cells)
}

// Cells returns all cells in row-major order.
func (s *Sheet) Cells() []Cell {
	result := make([]Cell, 0, len(s.cells))
	for _, c := range s.cells {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Row != result[j].Row {
			return result[i].Row < result[j].Row
		}
		return result[i].Col < result[j].Col
	})
	return result
}

// Bounds returns the highest row and column holding a cell, or -1, -1 for an empty sheet.
func (s *Sheet) Bounds() (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	for k := range s.cells {
		if k.Row > maxRow {
			maxRow = k.Row
		}
		if k.Col > maxCol {
			maxCol = k.Col
		}
	}
	return
}
