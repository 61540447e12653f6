package extract

import (
	"regexp"

	"github.com/dgallion1/jbooks/internal/grid"
	"github.com/dgallion1/jbooks/internal/textutil"
)

// The tagged exports are frequently malformed (self-closing empty cells,
// uneven cell counts, stray tags), so tables are recovered by regex
// scanning over the decoded text rather than a strict XML parse.
var (
	taggedTableRe = regexp.MustCompile(`(?s)<Table\b[^>]*>(.*?)</Table>`)
	taggedRowRe   = regexp.MustCompile(`(?s)<TR\b[^>]*>(.*?)</TR>`)
	taggedCellRe  = regexp.MustCompile(`(?s)<(TH|TD)\b[^>]*/>|<(TH|TD)\b[^>]*>(.*?)</(?:TH|TD)>`)
	taggedSpanRe  = regexp.MustCompile(`(?s)<(?:P|H[1-6]|Caption)\b[^>]*>(.*?)</(?:P|H[1-6]|Caption)>`)
)

// contextWindow is how far back (in characters) the table namer looks for
// a heading or caption preceding a table.
const contextWindow = 3000

// ExtractTagged recovers grids from tagged-table markup (TaggedPDF-doc
// exports): paired Table delimiters containing TR rows of TH/TD cells.
func ExtractTagged(data []byte, maxRows int) ([]grid.Grid, error) {
	text, err := decodeMarkup(data)
	if err != nil {
		return nil, err
	}

	var grids []grid.Grid
	matches := taggedTableRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		body := text[m[2]:m[3]]
		rt := rawTable{
			Index:   i + 1,
			Rows:    scanTaggedRows(body),
			Context: precedingSpans(text, m[0], taggedSpanRe),
		}
		if g, ok := buildGrid(rt, maxRows); ok {
			grids = append(grids, g)
		}
	}
	return grids, nil
}

func scanTaggedRows(body string) [][]rawCell {
	var rows [][]rawCell
	for _, rm := range taggedRowRe.FindAllStringSubmatch(body, -1) {
		var row []rawCell
		for _, cm := range taggedCellRe.FindAllStringSubmatch(rm[1], -1) {
			// cm[1] is set for the self-closing form, cm[2]/cm[3] for
			// the open/text/close form.
			tag := cm[1]
			content := ""
			if tag == "" {
				tag = cm[2]
				content = cm[3]
			}
			row = append(row, rawCell{
				Text:   textutil.StripTags(content),
				Header: tag == "TH",
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// precedingSpans extracts the prose spans inside the bounded window of
// text just before a table, oldest first.
func precedingSpans(text string, tableStart int, spanRe *regexp.Regexp) []string {
	start := tableStart - contextWindow
	if start < 0 {
		start = 0
	}
	window := text[start:tableStart]
	var spans []string
	for _, sm := range spanRe.FindAllStringSubmatch(window, -1) {
		if s := textutil.StripTags(sm[1]); s != "" {
			spans = append(spans, s)
		}
	}
	return spans
}
