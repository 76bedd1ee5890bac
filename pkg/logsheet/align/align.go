// Package align computes line-level alignments between two ordered text sequences.
package align

import (
	"sort"

	"github.com/ukaji3/logsheet-go/pkg/logsheet/models"
)

// block is a run of size lines equal in source (from a) and target (from b).
type block struct {
	a, b, size int
}

// region is a pending pair of unmatched ranges.
type region struct {
	alo, ahi, blo, bhi int
}

// Align returns the operations turning source into target.
//
// The longest run common to an unmatched region is taken as an equal block
// (ties go to the earliest source position, then the earliest target
// position), and the regions on either side of it are searched the same way.
// Whatever is left between equal blocks is a replace, delete or insert.
// The source and target ranges of the returned operations partition
// [0, len(source)) and [0, len(target)).
func Align(source, target []string) []models.AlignmentOp {
	switch {
	case len(source) == 0 && len(target) == 0:
		return nil
	case len(source) == 0:
		return []models.AlignmentOp{{
			Kind:   models.OpInsert,
			Target: models.Range{Lo: 0, Hi: len(target)},
		}}
	case len(target) == 0:
		return []models.AlignmentOp{{
			Kind:   models.OpDelete,
			Source: models.Range{Lo: 0, Hi: len(source)},
		}}
	}

	return opcodes(matchingBlocks(source, target), len(source), len(target))
}

// matchingBlocks finds the equal blocks with an explicit work-list and returns
// them sorted, with adjacent blocks merged.
func matchingBlocks(source, target []string) []block {
	positions := indexTarget(target)

	var found []block
	pending := []region{{0, len(source), 0, len(target)}}
	for len(pending) > 0 {
		r := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		m := longestMatch(source, positions, r)
		if m.size == 0 {
			continue
		}
		found = append(found, m)
		if r.alo < m.a && r.blo < m.b {
			pending = append(pending, region{r.alo, m.a, r.blo, m.b})
		}
		if m.a+m.size < r.ahi && m.b+m.size < r.bhi {
			pending = append(pending, region{m.a + m.size, r.ahi, m.b + m.size, r.bhi})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].a != found[j].a {
			return found[i].a < found[j].a
		}
		return found[i].b < found[j].b
	})

	var merged []block
	for _, m := range found {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.a+last.size == m.a && last.b+last.size == m.b {
				last.size += m.size
				continue
			}
		}
		merged = append(merged, m)
	}
	return merged
}

// indexTarget maps each target line to its ascending positions.
func indexTarget(target []string) map[string][]int {
	positions := make(map[string][]int)
	for j, line := range target {
		positions[line] = append(positions[line], j)
	}
	return positions
}

// longestMatch returns the longest block common to source[alo:ahi] and
// target[blo:bhi]. runs[j] holds the length of the run ending at the
// previous source line and target line j.
func longestMatch(source []string, positions map[string][]int, r region) block {
	best := block{a: r.alo, b: r.blo}
	runs := map[int]int{}
	for i := r.alo; i < r.ahi; i++ {
		next := map[int]int{}
		for _, j := range positions[source[i]] {
			if j < r.blo {
				continue
			}
			if j >= r.bhi {
				break
			}
			k := runs[j-1] + 1
			next[j] = k
			if k > best.size {
				best = block{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		runs = next
	}
	return best
}

// opcodes classifies the gaps between sorted equal blocks.
func opcodes(blocks []block, la, lb int) []models.AlignmentOp {
	blocks = append(blocks, block{a: la, b: lb})

	var ops []models.AlignmentOp
	i, j := 0, 0
	for _, m := range blocks {
		gap := models.AlignmentOp{
			Source: models.Range{Lo: i, Hi: m.a},
			Target: models.Range{Lo: j, Hi: m.b},
		}
		switch {
		case i < m.a && j < m.b:
			gap.Kind = models.OpReplace
			ops = append(ops, gap)
		case i < m.a:
			gap.Kind = models.OpDelete
			ops = append(ops, gap)
		case j < m.b:
			gap.Kind = models.OpInsert
			ops = append(ops, gap)
		}
		i, j = m.a+m.size, m.b+m.size
		if m.size > 0 {
			ops = append(ops, models.AlignmentOp{
				Kind:   models.OpEqual,
				Source: models.Range{Lo: m.a, Hi: i},
				Target: models.Range{Lo: m.b, Hi: j},
			})
		}
	}
	return ops
}
