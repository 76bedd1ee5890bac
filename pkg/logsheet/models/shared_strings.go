package models

// SharedStrings is a deduplicated, append-only table of string values.
// One table belongs to exactly one workbook.
type SharedStrings struct {
	values []string
	index  map[string]int
}

// NewSharedStrings creates an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: make(map[string]int)}
}

// Intern returns the index of s, appending it if it is not present yet.
func (t *SharedStrings) Intern(s string) int {
	if i, ok := t.index[s]; ok {
		return i
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	i := len(t.values)
	t.values = append(t.values, s)
	t.index[s] = i
	return i
}

// Append adds s at the end of the table even if an equal entry exists.
// Decoded tables may legally hold duplicates; lookups keep resolving to the first one.
func (t *SharedStrings) Append(s string) int {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	i := len(t.values)
	t.values = append(t.values, s)
	if _, ok := t.index[s]; !ok {
		t.index[s] = i
	}
	return i
}

// Lookup returns the index of s without modifying the table.
func (t *SharedStrings) Lookup(s string) (int, bool) {
	i, ok := t.index[s]
	return i, ok
}

// At returns the value at index i.
func (t *SharedStrings) At(i int) (string, bool) {
	if i < 0 || i >= len(t.values) {
		return "", false
	}
	return t.values[i], true
}

// Len returns the number of entries.
func (t *SharedStrings) Len() int {
	return len(t.values)
}

// Values returns a copy of the entries in index order.
func (t *SharedStrings) Values() []string {
	return append([]string(nil), t.values...)
}

// Clone returns an independent copy of the table.
func (t *SharedStrings) Clone() *SharedStrings {
	c := &SharedStrings{
		values: append([]string(nil), t.values...),
		index:  make(map[string]int, len(t.index)),
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}
