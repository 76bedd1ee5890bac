package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
	"github.com/xuri/efp"
)

// ErrInvalidFormula indicates a formula that cannot be tokenized.
var ErrInvalidFormula = errors.New("invalid formula")

// tokenize runs the spreadsheet formula tokenizer on expr.
func tokenize(expr string) (tokens []efp.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %q: %v", ErrInvalidFormula, expr, r)
		}
	}()
	ps := efp.ExcelParser()
	return ps.Parse("=" + strings.TrimPrefix(expr, "=")), nil
}

// checkFormula rejects blank formulas, unknown tokens and unbalanced
// function or subexpression brackets.
func checkFormula(expr string) error {
	if strings.TrimSpace(strings.TrimPrefix(expr, "=")) == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidFormula)
	}
	tokens, err := tokenize(expr)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidFormula, expr)
	}

	depth := 0
	for _, tk := range tokens {
		if tk.TType == efp.TokenTypeUnknown {
			return fmt.Errorf("%w: %q: unexpected %q", ErrInvalidFormula, expr, tk.TValue)
		}
		if tk.TType != efp.TokenTypeFunction && tk.TType != efp.TokenTypeSubexpression {
			continue
		}
		switch tk.TSubType {
		case efp.TokenSubTypeStart:
			depth++
		case efp.TokenSubTypeStop:
			depth--
		}
		if depth < 0 {
			return fmt.Errorf("%w: %q: unbalanced brackets", ErrInvalidFormula, expr)
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: %q: unbalanced brackets", ErrInvalidFormula, expr)
	}
	return nil
}

// FormulaRefs returns the range operands of expr, in order of appearance.
func FormulaRefs(expr string) ([]string, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, tk := range tokens {
		if tk.TType == efp.TokenTypeOperand && tk.TSubType == efp.TokenSubTypeRange {
			refs = append(refs, tk.TValue)
		}
	}
	return refs, nil
}

// ComparisonResult reports the cached outcome of a comparison cell. ok is
// false unless c sits in the comparison column and its formula compares the
// source and target cells of its own row.
func ComparisonResult(c models.Cell) (equal, ok bool) {
	if c.Col != ColDiff || !c.IsFormula() {
		return false, false
	}
	refs, err := FormulaRefs(c.Formula.Expr)
	if err != nil || len(refs) != 2 {
		return false, false
	}
	expected, err := compareFormula(c.Row)
	if err != nil || refs[0]+"="+refs[1] != expected {
		return false, false
	}
	return c.Formula.Cached == "1", true
}
