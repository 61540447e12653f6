package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/dgallion1/jbooks/internal/grid"
	"github.com/dgallion1/jbooks/internal/textutil"
)

// WordprocessingML delimiters. Same pipeline as the tagged extractor with
// two substitutions: the package's native table/row/cell markers, and bold
// runs as the header signal.
var (
	wTblRe  = regexp.MustCompile(`(?s)<w:tbl\b[^>]*>(.*?)</w:tbl>`)
	wTrRe   = regexp.MustCompile(`(?s)<w:tr\b[^>]*>(.*?)</w:tr>`)
	wTcRe   = regexp.MustCompile(`(?s)<w:tc\b[^>]*>(.*?)</w:tc>`)
	wTextRe = regexp.MustCompile(`(?s)<w:t\b[^>]*>(.*?)</w:t>`)
	wParaRe = regexp.MustCompile(`(?s)<w:p\b[^>]*>(.*?)</w:p>`)
	wBoldRe = regexp.MustCompile(`<w:b\b(?:\s+w:val="([^"]*)")?\s*/?>`)
)

// ExtractOfficeXML recovers grids from Word 2003 flat XML
// (mso-application / w:wordDocument exports).
func ExtractOfficeXML(data []byte, maxRows int) ([]grid.Grid, error) {
	text, err := decodeMarkup(data)
	if err != nil {
		return nil, err
	}
	return scanOfficeTables(text, maxRows), nil
}

// ExtractDocx unzips a .docx container and routes its word/document.xml
// through the same scanner as the flat XML form.
func ExtractDocx(data []byte, maxRows int) ([]grid.Grid, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		doc, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		return scanOfficeTables(string(doc), maxRows), nil
	}
	return nil, fmt.Errorf("docx container has no word/document.xml")
}

func scanOfficeTables(text string, maxRows int) []grid.Grid {
	var grids []grid.Grid
	matches := wTblRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		body := text[m[2]:m[3]]
		rt := rawTable{
			Index:   i + 1,
			Rows:    scanOfficeRows(body),
			Context: precedingSpans(text, m[0], wParaRe),
		}
		if g, ok := buildGrid(rt, maxRows); ok {
			grids = append(grids, g)
		}
	}
	return grids
}

func scanOfficeRows(body string) [][]rawCell {
	var rows [][]rawCell
	for _, rm := range wTrRe.FindAllStringSubmatch(body, -1) {
		var row []rawCell
		for _, cm := range wTcRe.FindAllStringSubmatch(rm[1], -1) {
			var text bytes.Buffer
			for _, tm := range wTextRe.FindAllStringSubmatch(cm[1], -1) {
				text.WriteString(tm[1])
				text.WriteString(" ")
			}
			row = append(row, rawCell{
				Text:   textutil.StripTags(text.String()),
				Header: hasBoldRun(cm[1]),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// hasBoldRun reports whether a cell contains a bold run. A w:val of
// 0/false/none/off negates the marker.
func hasBoldRun(cell string) bool {
	for _, bm := range wBoldRe.FindAllStringSubmatch(cell, -1) {
		switch bm[1] {
		case "0", "false", "none", "off":
			continue
		default:
			return true
		}
	}
	return false
}
