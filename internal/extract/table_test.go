package extract

import (
	"testing"

	"github.com/dgallion1/jbooks/internal/grid"
)

func th(s string) rawCell { return rawCell{Text: s, Header: true} }
func td(s string) rawCell { return rawCell{Text: s} }

func TestMergeHeaders_PeriodSuperHeader(t *testing.T) {
	headerRows := [][]rawCell{
		{th("FY 2024"), th("FY 2025")},
		{th("Item"), th("Actuals"), th("Enacted")},
	}
	labels, supers := mergeHeaders(headerRows, 3)
	if labels[0] != "Item" {
		t.Errorf("label 0 = %q", labels[0])
	}
	if labels[1] != "FY 2024 Actuals" {
		t.Errorf("label 1 = %q, want FY 2024 Actuals", labels[1])
	}
	if labels[2] != "FY 2025 Enacted" {
		t.Errorf("label 2 = %q, want FY 2025 Enacted", labels[2])
	}
	if columnType(1, labels[1], supers[1]) != grid.TypeNumeric {
		t.Error("period column 1 should be numeric")
	}
	if columnType(2, labels[2], supers[2]) != grid.TypeNumeric {
		t.Error("period column 2 should be numeric")
	}
	if columnType(0, labels[0], supers[0]) != grid.TypeText {
		t.Error("label column should be text")
	}
}

func TestMergeHeaders_SuperSubstitutesForEmptySub(t *testing.T) {
	headerRows := [][]rawCell{
		{th(""), th("FY 2026")},
		{th("Account"), th("")},
	}
	labels, _ := mergeHeaders(headerRows, 2)
	if labels[1] != "FY 2026" {
		t.Errorf("label 1 = %q, want FY 2026", labels[1])
	}
}

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		row  []rawCell
		want bool
	}{
		{"all header cells", []rawCell{th("Item"), th("Amount")}, true},
		{"text only data cells", []rawCell{td("Item"), td("Amount")}, true},
		{"nonzero number present", []rawCell{td("Flying Hours"), td("5,496,093")}, false},
		{"zero does not disqualify", []rawCell{td("Item"), td("0")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHeaderRow(tt.row); got != tt.want {
				t.Errorf("isHeaderRow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildGrid_FirstRowFallbackHeader(t *testing.T) {
	// Every row carries nonzero numbers, so no row satisfies the header
	// heuristic; the first row becomes the header instead of failing.
	rt := rawTable{Index: 1, Rows: [][]rawCell{
		{td("Account 1"), td("100"), td("200")},
		{td("Account 2"), td("300"), td("400")},
	}}
	g, ok := buildGrid(rt, 0)
	if !ok {
		t.Fatal("expected grid")
	}
	if len(g.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(g.Rows))
	}
	if g.Columns[0].Label != "Account 1" {
		t.Errorf("fallback header label = %q", g.Columns[0].Label)
	}
}

func TestBuildGrid_NarrativeTableDiscarded(t *testing.T) {
	rt := rawTable{Index: 1, Rows: [][]rawCell{
		{th("This exhibit describes the program's purpose")},
		{th("and its justification in prose form.")},
	}}
	if _, ok := buildGrid(rt, 0); ok {
		t.Error("narrative table should be discarded")
	}
}

func TestBuildGrid_RowTyping(t *testing.T) {
	rt := rawTable{Index: 1, Rows: [][]rawCell{
		{th("Item"), th("FY 2026 Request")},
		{td("Flying Operations"), td("5,496,093")},
		{th("Subtotal Air Operations"), th("5,496,093")},
		{td("Total, Budget Activity 1"), td("8,660,304")},
		{td(""), td("")},
	}}
	g, ok := buildGrid(rt, 0)
	if !ok {
		t.Fatal("expected grid")
	}
	if len(g.Rows) != 3 {
		t.Fatalf("expected 3 rows (empty row dropped), got %d", len(g.Rows))
	}
	if g.Rows[0].RowType != grid.RowData {
		t.Errorf("row 0 = %s, want data", g.Rows[0].RowType)
	}
	if g.Rows[1].RowType != grid.RowSubtotal {
		t.Errorf("row 1 = %s, want subtotal", g.Rows[1].RowType)
	}
	if g.Rows[2].RowType != grid.RowTotal {
		t.Errorf("row 2 = %s, want total", g.Rows[2].RowType)
	}
}

func TestPickTableName(t *testing.T) {
	tests := []struct {
		name    string
		context []string
		index   int
		want    string
	}{
		{
			"exhibit citation preferred",
			[]string{"Some section heading", "Exhibit OP-5, Operation and Maintenance Detail"},
			1,
			"Exhibit OP-5, Operation and Maintenance Detail",
		},
		{
			"boilerplate skipped",
			[]string{"Department of Defense", "UNCLASSIFIED", "Page 12", "Summary of Funding Changes"},
			1,
			"Summary of Funding Changes",
		},
		{
			"exhibit wins over later prose",
			[]string{"Exhibit R-2 Budget Item Justification", "continued remarks"},
			1,
			"Exhibit R-2 Budget Item Justification",
		},
		{
			"positional fallback",
			[]string{"42", "UNCLASSIFIED"},
			7,
			"Table 7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickTableName(tt.context, tt.index); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
