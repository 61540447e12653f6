package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/jbooks/internal/grid"
	"github.com/dgallion1/jbooks/internal/textutil"
)

// rawCell is one scanned table cell before normalization. Header marks a
// header-tagged (or bold-run) cell.
type rawCell struct {
	Text   string
	Header bool
}

// rawTable is one scanned table plus the prose spans that preceded it in
// the source, oldest first. Index is the table's 1-based position in the
// file, used for fallback naming.
type rawTable struct {
	Rows    [][]rawCell
	Context []string
	Index   int
}

// maxHeaderRows caps the consecutive header rows merged at the top of a
// table.
const maxHeaderRows = 3

var (
	periodRe = regexp.MustCompile(`(?i)\bFY\s*\d{2,4}\b`)
	fiscalRe = regexp.MustCompile(`(?i)\b(fy\s*\d{2,4}|actuals?|enacted|request(?:ed)?|estimates?|amount|totals?|price|cost|quantity|qty|change|delta)\b|\$`)
	totalRe  = regexp.MustCompile(`(?i)^(grand\s+)?total\b`)

	exhibitRe = regexp.MustCompile(`(?i)\bexhibit\s+[A-Z0-9][A-Za-z0-9-]*`)
	pageNumRe = regexp.MustCompile(`(?i)^(?:page\s+)?\d+(\s+of\s+\d+)?$`)
	boilerRe  = regexp.MustCompile(`(?i)^(unclassified|cui\b|for official use only|department of (defense|the army|the navy|the air force)|office of the|united states (army|navy|air force|space force)|fiscal year \d{4} (president'?s )?budget)`)
)

// maxNameLen bounds table names taken from surrounding prose.
const maxNameLen = 80

// isHeaderRow reports whether a row looks like a header: every cell is
// header-tagged, or none of its data-tagged cells parses as a nonzero
// number.
func isHeaderRow(row []rawCell) bool {
	for _, c := range row {
		if c.Header {
			continue
		}
		if n, ok := textutil.ParseAmount(c.Text); ok && n != 0 {
			return false
		}
	}
	return true
}

// headerSpan counts the consecutive header rows at the top of a table,
// capped at maxHeaderRows. Zero means no row satisfied the heuristic and
// the caller should fall back to treating the first row as header.
func headerSpan(rows [][]rawCell) int {
	n := 0
	for _, row := range rows {
		if n >= maxHeaderRows || !isHeaderRow(row) {
			break
		}
		n++
	}
	return n
}

// padLeft left-pads a header row to width so sub-labels align with the
// data columns; the label column conventionally has no super-header cell.
func padLeft(row []rawCell, width int) []rawCell {
	if len(row) >= width {
		return row
	}
	padded := make([]rawCell, width-len(row), width)
	return append(padded, row...)
}

// mergeHeaders combines a multi-row header into one label per column.
// When a super-header cell carries a period banner ("FY 2024"), it
// prefixes the sub-label below it.
func mergeHeaders(headerRows [][]rawCell, width int) (labels []string, supers []string) {
	labels = make([]string, width)
	supers = make([]string, width)
	if len(headerRows) == 0 {
		return labels, supers
	}
	sub := padLeft(headerRows[len(headerRows)-1], width)
	for i := range width {
		labels[i] = textutil.CollapseSpace(sub[i].Text)
	}
	if len(headerRows) >= 2 {
		super := padLeft(headerRows[0], width)
		for i := range width {
			s := textutil.CollapseSpace(super[i].Text)
			supers[i] = s
			if !periodRe.MatchString(s) {
				continue
			}
			if labels[i] == "" {
				labels[i] = s
			} else {
				labels[i] = s + " " + labels[i]
			}
		}
	}
	return labels, supers
}

// columnType infers a column's semantic type from its merged label and
// super-header. Column 0 is always the text row label.
func columnType(idx int, label, super string) grid.SemanticType {
	if idx == 0 {
		return grid.TypeText
	}
	if periodRe.MatchString(super) || fiscalRe.MatchString(label) {
		return grid.TypeNumeric
	}
	return grid.TypeText
}

// pickTableName chooses a name from the prose spans preceding a table:
// boilerplate is skipped, an "Exhibit" citation wins, otherwise the most
// recent qualifying span, otherwise a positional fallback.
func pickTableName(context []string, index int) string {
	var fallback string
	for i := len(context) - 1; i >= 0; i-- {
		span := textutil.CollapseSpace(context[i])
		if span == "" || pageNumRe.MatchString(span) || boilerRe.MatchString(span) {
			continue
		}
		if exhibitRe.MatchString(span) {
			return truncateName(span)
		}
		if fallback == "" {
			fallback = span
		}
	}
	if fallback != "" {
		return truncateName(fallback)
	}
	return fmt.Sprintf("Table %d", index)
}

func truncateName(s string) string {
	if len(s) <= maxNameLen {
		return s
	}
	return strings.TrimSpace(s[:maxNameLen])
}

// buildGrid runs the shared table pipeline: header detection and merge,
// column typing, row classification, naming, unit detection, and
// canonicalization. Returns false when the table is narrative or empty.
func buildGrid(rt rawTable, maxRows int) (grid.Grid, bool) {
	// Drop rows with no populated cell at all.
	rows := make([][]rawCell, 0, len(rt.Rows))
	width := 0
	allHeaderTagged := true
	for _, row := range rt.Rows {
		populated := false
		for _, c := range row {
			if textutil.CollapseSpace(c.Text) != "" {
				populated = true
			}
			if !c.Header {
				allHeaderTagged = false
			}
		}
		if !populated {
			continue
		}
		rows = append(rows, row)
		if len(row) > width {
			width = len(row)
		}
	}
	if len(rows) == 0 || width == 0 {
		return grid.Grid{}, false
	}
	// Narrative prose rendered as a one- or two-column table of header
	// cells is not data.
	if allHeaderTagged && width <= 2 {
		return grid.Grid{}, false
	}

	span := headerSpan(rows)
	if span == 0 {
		span = 1 // ambiguous header: treat the first row as the header
	}
	if span >= len(rows) {
		return grid.Grid{}, false
	}

	labels, supers := mergeHeaders(rows[:span], width)
	cols := make([]grid.Column, width)
	for i := range width {
		cols[i] = grid.Column{
			Code:         textutil.Slugify(labels[i]),
			Label:        labels[i],
			SemanticType: columnType(i, labels[i], supers[i]),
		}
	}
	cols = grid.DedupeCodes(cols)

	g := grid.Grid{
		Name:    pickTableName(rt.Context, rt.Index),
		Columns: cols,
	}
	headerText := strings.Join(labels, " ")
	g.DollarUnit = grid.DetectDollarUnit(headerText, strings.Join(rt.Context, " "))

	for _, row := range rows[span:] {
		r := grid.Row{Cells: make(map[string]any, width)}
		allHeader := true
		for _, c := range row {
			if !c.Header {
				allHeader = false
			}
		}
		for i := range width {
			var c rawCell
			if i < len(row) {
				c = row[i]
			}
			text := textutil.CollapseSpace(c.Text)
			if cols[i].SemanticType == grid.TypeNumeric {
				if n, ok := textutil.ParseAmount(text); ok {
					r.Cells[cols[i].Code] = n
				} else {
					r.Cells[cols[i].Code] = nil
				}
			} else if text != "" {
				r.Cells[cols[i].Code] = text
			} else {
				r.Cells[cols[i].Code] = nil
			}
		}
		label := ""
		if len(row) > 0 {
			label = textutil.CollapseSpace(row[0].Text)
		}
		switch {
		case allHeader:
			r.RowType = grid.RowSubtotal
		case totalRe.MatchString(label):
			r.RowType = grid.RowTotal
		default:
			r.RowType = grid.RowData
		}
		g.Rows = append(g.Rows, r)
	}

	if !grid.Canonicalize(&g, maxRows) {
		return grid.Grid{}, false
	}
	return g, true
}
