package archive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// escapedRune matches the _xHHHH_ notation spreadsheet files use for
// characters XML cannot carry.
var escapedRune = regexp.MustCompile(`_x[0-9A-Fa-f]{4}_`)

// escapeText encodes characters that are not allowed in XML 1.0 as _xHHHH_.
// A literal _xHHHH_ sequence in the input has its underscore escaped so it
// survives decoding unchanged.
func escapeText(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' && escapedRune.MatchString(s[i:min(len(s), i+7)]):
			b.WriteString("_x005F_")
		case !validXMLRune(r):
			fmt.Fprintf(&b, "_x%04X_", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsEscape(s string) bool {
	for _, r := range s {
		if !validXMLRune(r) {
			return true
		}
	}
	return strings.Contains(s, "_x") && escapedRune.MatchString(s)
}

// unescapeText reverses escapeText.
func unescapeText(s string) string {
	if !strings.Contains(s, "_x") {
		return s
	}
	return escapedRune.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseUint(m[2:6], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
}

func validXMLRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	}
	return true
}

// textElement builds a <t> element, preserving significant whitespace.
func textElement(s string) xlsxT {
	t := xlsxT{Value: escapeText(s)}
	if strings.TrimSpace(s) != s {
		t.Space = "preserve"
	}
	return t
}
