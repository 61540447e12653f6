package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/jbooks/internal/grid"
	"github.com/dgallion1/jbooks/internal/textutil"
)

// headerScanWindow is how many leading rows of a sheet are searched for
// the header row; anything above it is title/date banner.
const headerScanWindow = 10

// minHeaderCells is the fill threshold that distinguishes a header row
// from banner rows.
const minHeaderCells = 4

// ExtractWorkbook recovers one grid per sheet of an xlsx workbook. A
// sheet that fails to read is skipped without failing the workbook.
func ExtractWorkbook(data []byte, maxRows int) ([]grid.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var grids []grid.Grid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if g, ok := sheetGrid(sheet, rows, maxRows); ok {
			grids = append(grids, g)
		}
	}
	return grids, nil
}

func sheetGrid(name string, rows [][]string, maxRows int) (grid.Grid, bool) {
	headerIdx := -1
	for i, row := range rows {
		if i >= headerScanWindow {
			break
		}
		filled := 0
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				filled++
			}
		}
		if filled >= minHeaderCells {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return grid.Grid{}, false
	}

	// Banner rows above the header carry the denomination marker.
	var banner strings.Builder
	for _, row := range rows[:headerIdx] {
		for _, c := range row {
			banner.WriteString(c)
			banner.WriteString(" ")
		}
	}

	// One column per non-empty header cell; remember the source index so
	// data cells line up.
	type boundCol struct {
		src int
		col grid.Column
	}
	var bound []boundCol
	for i, c := range rows[headerIdx] {
		label := textutil.CollapseSpace(c)
		if label == "" {
			continue
		}
		st := grid.TypeText
		if len(bound) > 0 && fiscalRe.MatchString(label) {
			st = grid.TypeNumeric
		}
		bound = append(bound, boundCol{src: i, col: grid.Column{
			Code:         textutil.Slugify(label),
			Label:        label,
			SemanticType: st,
		}})
	}
	if len(bound) == 0 {
		return grid.Grid{}, false
	}
	cols := make([]grid.Column, len(bound))
	for i, b := range bound {
		cols[i] = b.col
	}
	cols = grid.DedupeCodes(cols)

	g := grid.Grid{
		Name:       name,
		Columns:    cols,
		DollarUnit: grid.DetectDollarUnit(strings.Join(rows[headerIdx], " "), banner.String()),
	}

	for _, row := range rows[headerIdx+1:] {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		r := grid.Row{RowType: grid.RowData, Cells: make(map[string]any, len(cols))}
		for i, b := range bound {
			val := ""
			if b.src < len(row) {
				val = strings.TrimSpace(row[b.src])
			}
			if cols[i].SemanticType == grid.TypeNumeric {
				if n, ok := textutil.ParseAmount(val); ok {
					r.Cells[cols[i].Code] = n
				} else {
					r.Cells[cols[i].Code] = nil
				}
			} else if val != "" {
				r.Cells[cols[i].Code] = val
			} else {
				r.Cells[cols[i].Code] = nil
			}
		}
		g.Rows = append(g.Rows, r)
	}

	if !grid.Canonicalize(&g, maxRows) {
		return grid.Grid{}, false
	}
	return g, true
}
