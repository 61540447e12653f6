// Package extract turns raw source files into normalized grids. Each of
// the four input families (nested tree, tagged-table markup, word-processor
// packages, spreadsheet workbooks) has its own extractor; Extract sniffs
// the format and routes to the right one.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/jbooks/internal/grid"
)

// ErrUnsupported marks files no extractor can handle; callers skip these
// silently rather than recording an error.
var ErrUnsupported = fmt.Errorf("unsupported file format")

// sniffLen bounds how much of a file is inspected for a root-marker
// signature when the extension alone is ambiguous.
const sniffLen = 2048

// Detect classifies a file by extension, sniffing the content prefix for
// .xml, which carries three different schemas in the wild.
func Detect(path string, data []byte) (grid.SourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return grid.SourceTree, true
	case ".xlsx":
		return grid.SourceWorkbook, true
	case ".docx":
		return grid.SourceOffice, true
	case ".xml":
		prefix := data
		if len(prefix) > sniffLen {
			prefix = prefix[:sniffLen]
		}
		// Fixed priority: the office signature is the most specific,
		// the tree markers the loosest.
		switch {
		case bytes.Contains(prefix, []byte("<?mso-application")) ||
			bytes.Contains(prefix, []byte("<w:wordDocument")):
			return grid.SourceOffice, true
		case bytes.Contains(prefix, []byte("<TaggedPDF-doc")):
			return grid.SourceTagged, true
		case bytes.Contains(prefix, []byte("<genContent")) ||
			bytes.Contains(prefix, []byte("<docInfo")):
			return grid.SourceTree, true
		}
		return "", false
	default:
		return "", false
	}
}

// Extract routes a file to its extractor and returns the normalized grids.
// Returns ErrUnsupported when no format matches.
func Extract(path string, data []byte, maxRows int) ([]grid.Grid, grid.SourceType, error) {
	format, ok := Detect(path, data)
	if !ok {
		return nil, "", ErrUnsupported
	}

	var (
		grids []grid.Grid
		err   error
	)
	switch format {
	case grid.SourceTree:
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			grids, err = ExtractTreeJSON(data, maxRows)
		} else {
			grids, err = ExtractTreeXML(data, maxRows)
		}
	case grid.SourceTagged:
		grids, err = ExtractTagged(data, maxRows)
	case grid.SourceOffice:
		if strings.ToLower(filepath.Ext(path)) == ".docx" {
			grids, err = ExtractDocx(data, maxRows)
		} else {
			grids, err = ExtractOfficeXML(data, maxRows)
		}
	case grid.SourceWorkbook:
		grids, err = ExtractWorkbook(data, maxRows)
	}
	if err != nil {
		return nil, format, fmt.Errorf("extract %s: %w", format, err)
	}
	return grids, format, nil
}
