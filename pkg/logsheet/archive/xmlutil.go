package archive

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// walkElements calls fn for every start element of data that fn's callers
// have not consumed. Syntax errors are returned, unlike a bare token loop.
func walkElements(data []byte, fn func(decoder *xml.Decoder, se xml.StartElement) error) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	seen := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			if !seen {
				return io.ErrUnexpectedEOF
			}
			return nil
		}
		if err != nil {
			return err
		}
		if se, ok := token.(xml.StartElement); ok {
			seen = true
			if err := fn(decoder, se); err != nil {
				return err
			}
		}
	}
}

// readElementText returns the character data of the current element,
// including that of nested elements, and consumes its end tag.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// readRichText returns the concatenated <t> runs of a string item (<si> or
// <is>), skipping phonetic runs, and consumes its end tag.
func readRichText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				s, err := readElementText(decoder)
				if err != nil {
					return text.String(), err
				}
				text.WriteString(s)
			case "rPh", "phoneticPr":
				if err := decoder.Skip(); err != nil {
					return text.String(), err
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// attr returns the value of the attribute with the given local name.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
