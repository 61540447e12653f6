package grid

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxRows caps a grid's row list when no configured value is given.
const DefaultMaxRows = 500

// spacerCodes lists column codes that carry no data and exist only for
// visual layout in the source exports.
var spacerCodes = map[string]bool{
	"spacer": true,
	"blank":  true,
	"filler": true,
	"pad":    true,
}

// Canonicalize applies the shared final stage to a grid: spacer-column
// filtering, code deduplication, blank-row filtering, hierarchy-sensitive
// row retention, and row capping with the true pre-cap count preserved.
// Returns false when nothing worth keeping remains.
func Canonicalize(g *Grid, maxRows int) bool {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	// Drop spacer and fully empty columns, including their cells.
	cols := g.Columns[:0]
	for _, c := range g.Columns {
		if spacerCodes[strings.ToLower(c.Code)] || (c.Code == "" && c.Label == "") {
			for i := range g.Rows {
				delete(g.Rows[i].Cells, c.Code)
			}
			continue
		}
		cols = append(cols, c)
	}
	g.Columns = DedupeCodes(cols)
	if len(g.Columns) == 0 {
		return false
	}

	// Blank rows never survive; the rest keep their classification.
	rows := make([]Row, 0, len(g.Rows))
	hierarchical := false
	for _, r := range g.Rows {
		if r.RowType == RowBlank {
			continue
		}
		if r.RowType == RowSubtotal || r.RowType == RowTotal {
			hierarchical = true
		}
		rows = append(rows, r)
	}
	if !hierarchical {
		flat := rows[:0]
		for _, r := range rows {
			if r.RowType == RowData {
				flat = append(flat, r)
			}
		}
		rows = flat
	}

	g.TotalRowCount = len(rows)
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		g.Truncated = true
	} else {
		g.Truncated = false
	}
	g.Rows = rows

	if g.DollarUnit == "" {
		g.DollarUnit = UnitThousands
	}
	return g.TotalRowCount > 0
}

// DedupeCodes makes column codes unique within a grid: empty codes get
// positional names, repeated codes get numeric suffixes.
func DedupeCodes(cols []Column) []Column {
	seen := make(map[string]int, len(cols))
	out := make([]Column, 0, len(cols))
	for i, c := range cols {
		code := c.Code
		if code == "" {
			code = fmt.Sprintf("col%d", i+1)
		}
		if n, dup := seen[code]; dup {
			seen[code] = n + 1
			code = fmt.Sprintf("%s-%d", code, n+1)
		}
		if _, taken := seen[code]; !taken {
			seen[code] = 1
		}
		c.Code = code
		out = append(out, c)
	}
	return out
}

var unitRe = regexp.MustCompile(`(?i)(?:dollars?|\$)\s+in\s+(thousand|million)s?|\(in\s+(thousand|million)s?(?:\s+of\s+dollars)?\)|\b(thousand|million)s?\s+of\s+dollars`)

// DetectDollarUnit scans candidate texts in priority order for a
// thousands/millions denomination marker. Defaults to thousands.
func DetectDollarUnit(texts ...string) DollarUnit {
	for _, t := range texts {
		m := unitRe.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		word := m[1]
		if word == "" {
			word = m[2]
		}
		if word == "" {
			word = m[3]
		}
		if strings.EqualFold(word, "million") {
			return UnitMillions
		}
		return UnitThousands
	}
	return UnitThousands
}
