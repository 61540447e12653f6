// Package catalog derives stable document metadata from the input tree's
// directory and filename conventions and builds the sorted catalog index.
package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dgallion1/jbooks/internal/grid"
	"github.com/dgallion1/jbooks/internal/textutil"
)

// Entry is the denormalized catalog projection of one Document.
type Entry struct {
	ID            string `json:"id"`
	Service       string `json:"service"`
	Appropriation string `json:"appropriation"`
	DisplayLabel  string `json:"displayLabel"`
	File          string `json:"file"`
	GridCount     int    `json:"gridCount"`
}

// serviceLabels maps the first path segment to a display name.
var serviceLabels = map[string]string{
	"Army":        "Army",
	"AirForce":    "Air Force",
	"DefenseWide": "Defense-Wide",
	"DoD_Summary": "DoD Summary",
	"Navy":        "Navy",
}

// categoryLabels maps the category directory to an appropriation display
// name. Keys are lowercased before lookup.
var categoryLabels = map[string]string{
	"rdte":                      "RDT&E",
	"o&m":                       "Operation & Maintenance",
	"o&m_agencies":              "Operation & Maintenance",
	"operation and maintenance": "Operation & Maintenance",
	"milpers":                   "Military Personnel",
	"military personnel":        "Military Personnel",
	"procurement":               "Procurement",
	"milcon":                    "Military Construction",
	"military construction":     "Military Construction",
	"awcf":                      "Working Capital Fund",
	"camdd":                     "Chemical Agents & Munitions Destruction",
	"brac":                      "Base Realignment and Closure",
	"u.s. army cemeterial expenses and construction": "Cemeterial Expenses",
	"other funds": "Other Funds",
}

// filenameTokens classifies documents whose category is encoded in the
// filename rather than a directory (the summary display workbooks).
var filenameTokens = []struct {
	token string
	label string
}{
	{"m1", "Military Personnel"},
	{"o1", "Operation & Maintenance"},
	{"p1r", "Procurement"},
	{"p1", "Procurement"},
	{"rf1", "Revolving & Management Funds"},
	{"r1", "RDT&E"},
	{"c1", "Military Construction"},
}

// Describe derives service, appropriation, and display label from an
// input-relative path like "DefenseWide/O&M_Agencies/CYBERCOM_OP-5.json".
func Describe(relPath string) (service, appropriation, label string) {
	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	segs := strings.Split(relPath, "/")

	svcKey := ""
	if len(segs) > 0 {
		svcKey = segs[0]
	}
	service = serviceLabels[svcKey]
	if service == "" {
		service = svcKey
	}

	filename := segs[len(segs)-1]
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	label = textutil.CollapseSpace(strings.ReplaceAll(stem, "_", " "))

	if len(segs) > 2 {
		cat := segs[len(segs)-2]
		appropriation = categoryLabels[strings.ToLower(cat)]
		if appropriation == "" {
			appropriation = cat
		}
		return service, appropriation, label
	}

	// No category directory: classify from filename tokens.
	for _, tok := range strings.Split(strings.ToLower(stem), "_") {
		for _, ft := range filenameTokens {
			if tok == ft.token {
				return service, ft.label, label
			}
		}
	}
	return service, "Summary", label
}

// Finalize sorts documents deterministically, assigns unique slug ids,
// and builds the catalog entries. Ids are assigned after the sort so they
// are stable regardless of how a parallel run interleaved the parses.
func Finalize(docs []*grid.Document) []Entry {
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		if a.Appropriation != b.Appropriation {
			return a.Appropriation < b.Appropriation
		}
		if a.Document != b.Document {
			return a.Document < b.Document
		}
		return a.SourceFile < b.SourceFile
	})

	taken := make(map[string]int, len(docs))
	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		id := textutil.Slugify(d.Service + " " + d.Appropriation + " " + d.Document)
		if id == "" {
			id = "document"
		}
		if n := taken[id]; n > 0 {
			taken[id] = n + 1
			id = fmt.Sprintf("%s-%d", id, n+1)
		}
		taken[id]++
		d.ID = id

		entries = append(entries, Entry{
			ID:            id,
			Service:       d.Service,
			Appropriation: d.Appropriation,
			DisplayLabel:  d.Document,
			File:          "documents/" + id + ".json",
			GridCount:     len(d.Grids),
		})
	}
	return entries
}
