package merge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/xuri/excelize/v2"
)

// versionSep separates a base sheet name from its version number: srv01.v2.
const versionSep = ".v"

// ErrReservedSheetName indicates a name spreadsheet applications keep for themselves.
var ErrReservedSheetName = errors.New("the sheet name is reserved")

// IllegalSheetNameError reports a sheet that cannot be added under its base name.
type IllegalSheetNameError struct {
	Name string
	Err  error
}

func (e *IllegalSheetNameError) Error() string {
	return fmt.Sprintf("illegal sheet name %q: %v", e.Name, e.Err)
}

func (e *IllegalSheetNameError) Unwrap() error {
	return e.Err
}

// NewIllegalSheetNameError creates a new IllegalSheetNameError.
func NewIllegalSheetNameError(name string, err error) *IllegalSheetNameError {
	return &IllegalSheetNameError{
		Name: name,
		Err:  err,
	}
}

// ValidateSheetName checks name against the rules spreadsheet applications
// enforce on tab names. The name is never shortened.
func ValidateSheetName(name string) error {
	var err error
	switch {
	case strings.TrimSpace(name) == "":
		err = excelize.ErrSheetNameBlank
	case utf8.RuneCountInString(name) > excelize.MaxSheetNameLength:
		err = excelize.ErrSheetNameLength
	case strings.ContainsAny(name, `:\/?*[]`):
		err = excelize.ErrSheetNameInvalid
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		err = excelize.ErrSheetNameSingleQuote
	case strings.EqualFold(name, "History"):
		err = ErrReservedSheetName
	}
	if err != nil {
		return NewIllegalSheetNameError(name, err)
	}
	return nil
}

// NameSet is a case-insensitive set of sheet names.
type NameSet struct {
	names mapset.Set[string]
}

// NewNameSet creates a set holding names.
func NewNameSet(names ...string) *NameSet {
	s := &NameSet{names: mapset.NewThreadUnsafeSet[string]()}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add records name.
func (s *NameSet) Add(name string) {
	s.names.Add(foldName(name))
}

// Contains reports whether name, in any letter case, is in the set.
func (s *NameSet) Contains(name string) bool {
	return s.names.Contains(foldName(name))
}

func foldName(name string) string {
	return strings.ToLower(name)
}

// VersionedName returns the first of base, base.v2, base.v3, ... not in taken.
// The base is shortened when needed so the candidate stays within the sheet
// name length limit.
func VersionedName(base string, taken *NameSet) string {
	if !taken.Contains(base) {
		return base
	}
	for n := 2; ; n++ {
		suffix := versionSep + strconv.Itoa(n)
		candidate := truncateRunes(base, excelize.MaxSheetNameLength-len(suffix)) + suffix
		if !taken.Contains(candidate) {
			return candidate
		}
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// IsVersionOf reports whether name is base itself or one of its versions,
// returning the version number (1 for base).
func IsVersionOf(name, base string) (int, bool) {
	if strings.EqualFold(name, base) {
		return 1, true
	}
	i := max(strings.LastIndex(name, versionSep), strings.LastIndex(name, strings.ToUpper(versionSep)))
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[i+len(versionSep):])
	if err != nil || n < 2 || strconv.Itoa(n) != name[i+len(versionSep):] {
		return 0, false
	}
	prefix := name[:i]
	suffixLen := len(name) - i
	if strings.EqualFold(prefix, base) || strings.EqualFold(prefix, truncateRunes(base, excelize.MaxSheetNameLength-suffixLen)) {
		return n, true
	}
	return 0, false
}

// Latest returns the newest version of base among names, or "" when none exists.
func Latest(names []string, base string) string {
	best, bestVersion := "", 0
	for _, name := range names {
		if v, ok := IsVersionOf(name, base); ok && v > bestVersion {
			best, bestVersion = name, v
		}
	}
	return best
}
