// Package models defines the in-memory document model for log comparison workbooks.
package models

// DataType tells a reader how to interpret a cell's stored or cached value.
type DataType int

const (
	// DataTypeNone is a plain string cell, or a formula with a numeric cached result.
	DataTypeNone DataType = iota
	// DataTypeBoolean is a boolean value stored as "1" or "0".
	DataTypeBoolean
	// DataTypeString is a formula whose cached result is a string.
	DataTypeString
	// DataTypeNumber is a plain numeric value.
	DataTypeNumber
	// DataTypeError is an error value such as "#N/A".
	DataTypeError
	// DataTypeDate is an ISO 8601 date value.
	DataTypeDate
)

func (d DataType) String() string {
	switch d {
	case DataTypeBoolean:
		return "boolean"
	case DataTypeString:
		return "string"
	case DataTypeNumber:
		return "number"
	case DataTypeError:
		return "error"
	case DataTypeDate:
		return "date"
	default:
		return "none"
	}
}

// Formula holds a formula expression together with its cached result.
type Formula struct {
	// Expr is the formula text without the leading "=".
	Expr string `json:"expr"`
	// Cached is the precomputed result for readers that do not evaluate formulas.
	Cached string `json:"cached"`
	// Kind is the formula kind attribute ("shared", "array"), empty for normal formulas.
	Kind string `json:"kind,omitempty"`
	// Ref is the range a shared or array formula applies to.
	Ref string `json:"ref,omitempty"`
	// SharedIndex links cells belonging to the same shared formula.
	SharedIndex string `json:"si,omitempty"`
}

// Cell is a single cell of a sheet. A cell holds either a literal Value or a Formula.
type Cell struct {
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
	// Value is the literal content. Ignored when Formula is set.
	Value string `json:"value,omitempty"`
	// Formula is non-nil for formula cells.
	Formula *Formula `json:"formula,omitempty"`
	// Type describes Value, or the cached result when Formula is set.
	Type DataType `json:"type"`
}

// IsFormula reports whether the cell carries a formula.
func (c Cell) IsFormula() bool {
	return c.Formula != nil
}

// IsText reports whether the cell displays string content, either a literal
// string or a formula whose cached result is a string.
func (c Cell) IsText() bool {
	if c.Formula != nil {
		return c.Type == DataTypeString
	}
	return c.Type == DataTypeNone || c.Type == DataTypeString
}

// Text returns what a non-evaluating reader displays for the cell.
func (c Cell) Text() string {
	if c.Formula != nil {
		return c.Formula.Cached
	}
	return c.Value
}

// Coord addresses a cell inside a sheet.
type Coord struct {
	Row int
	Col int
}

func (c Cell) coord() Coord {
	return Coord{Row: c.Row, Col: c.Col}
}
