package align

import "github.com/ukaji3/logsheet-go/pkg/logsheet/models"

// Row is one display row of an alignment. A nil side means the row has no
// line on that side.
type Row struct {
	Kind   models.OpKind
	Source *models.LogLine
	Target *models.LogLine
}

// Rows expands ops into display rows, in alignment order.
// Replace ranges of unequal length are paired index by index and the
// shorter side is padded with nil.
func Rows(ops []models.AlignmentOp, source, target []models.LogLine) []Row {
	var rows []Row
	for _, op := range ops {
		span := op.Source.Len()
		if op.Target.Len() > span {
			span = op.Target.Len()
		}
		for k := 0; k < span; k++ {
			row := Row{Kind: op.Kind}
			if s := op.Source.Lo + k; s < op.Source.Hi {
				row.Source = &source[s]
			}
			if t := op.Target.Lo + k; t < op.Target.Hi {
				row.Target = &target[t]
			}
			rows = append(rows, row)
		}
	}
	return rows
}
