// Package archive reads and writes XLSX documents for comparison workbooks.
//
// The container is handled directly with archive/zip and encoding/xml: the
// package writes the minimal set of SpreadsheetML parts a spreadsheet
// application needs and reads back documents written by itself or by other
// tools following the same conventions.
package archive

import (
	"encoding/xml"
	"time"
)

// XML namespaces
const (
	nsMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types
const (
	relOfficeDocument = nsR + "/officeDocument"
	relWorksheet      = nsR + "/worksheet"
	relStyles         = nsR + "/styles"
	relSharedStrings  = nsR + "/sharedStrings"
)

// Content types
const (
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"
	ctWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
)

// Part names
const (
	partContentTypes  = "[Content_Types].xml"
	partRootRels      = "_rels/.rels"
	partWorkbook      = "xl/workbook.xml"
	partWorkbookRels  = "xl/_rels/workbook.xml.rels"
	partStyles        = "xl/styles.xml"
	partSharedStrings = "xl/sharedStrings.xml"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// zipEpoch is the modification time stamped on every entry so that equal
// workbooks encode to equal bytes.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Cell type attribute values
const (
	cellTypeShared  = "s"
	cellTypeInline  = "inlineStr"
	cellTypeString  = "str"
	cellTypeBoolean = "b"
	cellTypeNumber  = "n"
	cellTypeError   = "e"
	cellTypeDate    = "d"
)

type xlsxTypes struct {
	XMLName   xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []xlsxDefault  `xml:"Default"`
	Overrides []xlsxOverride `xml:"Override"`
}

type xlsxDefault struct {
	Extension   string `xml:",attr"`
	ContentType string `xml:",attr"`
}

type xlsxOverride struct {
	PartName    string `xml:",attr"`
	ContentType string `xml:",attr"`
}

type xlsxRelationships struct {
	XMLName       xml.Name           `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type xlsxWorkbook struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main workbook"`
	XMLNSR  string         `xml:"xmlns:r,attr"`
	Sheets  []xlsxSheetRef `xml:"sheets>sheet"`
}

type xlsxSheetRef struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"r:id,attr"`
}

type xlsxWorksheet struct {
	XMLName   xml.Name       `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main worksheet"`
	Dimension *xlsxDimension `xml:"dimension,omitempty"`
	SheetData xlsxSheetData  `xml:"sheetData"`
}

type xlsxDimension struct {
	Ref string `xml:"ref,attr"`
}

type xlsxSheetData struct {
	Rows []xlsxRow `xml:"row"`
}

type xlsxRow struct {
	R     int     `xml:"r,attr"`
	Cells []xlsxC `xml:"c"`
}

type xlsxC struct {
	R string  `xml:"r,attr"`
	T string  `xml:"t,attr,omitempty"`
	F *xlsxF  `xml:"f,omitempty"`
	V *string `xml:"v,omitempty"`
}

type xlsxF struct {
	T       string `xml:"t,attr,omitempty"`
	Ref     string `xml:"ref,attr,omitempty"`
	SI      string `xml:"si,attr,omitempty"`
	Content string `xml:",chardata"`
}

type xlsxSST struct {
	XMLName     xml.Name `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main sst"`
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	SI          []xlsxSI `xml:"si"`
}

type xlsxSI struct {
	T xlsxT `xml:"t"`
}

type xlsxT struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// stylesXML is the fixed theme: one font, one cell format and the two
// reserved fill patterns.
const stylesXML = xmlHeader + `<styleSheet xmlns="` + nsMain + `">` +
	`<fonts count="1"><font><sz val="11"/><color theme="1"/><name val="Calibri"/><family val="2"/></font></fonts>` +
	`<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>` +
	`<borders count="1"><border><left/><right/><top/><bottom/><diagonal/></border></borders>` +
	`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>` +
	`<cellXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/></cellXfs>` +
	`<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>` +
	`</styleSheet>`
