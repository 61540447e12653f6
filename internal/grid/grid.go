// Package grid defines the normalized tabular model that every extractor
// produces: a Document of named Grids, each a table of typed Columns and
// classified Rows.
package grid

// SourceType tags the input format a Document came from.
type SourceType string

const (
	SourceTree     SourceType = "tree"
	SourceTagged   SourceType = "tagged"
	SourceOffice   SourceType = "office"
	SourceWorkbook SourceType = "workbook"
)

// SemanticType classifies a column as row-label text or numeric data.
type SemanticType string

const (
	TypeText    SemanticType = "text"
	TypeNumeric SemanticType = "numeric"
)

// RowType classifies a row within a grid.
type RowType string

const (
	RowData     RowType = "data"
	RowSubtotal RowType = "subtotal"
	RowTotal    RowType = "total"
	RowHeader   RowType = "header"
	RowBlank    RowType = "blank"
)

// DollarUnit is the denomination a grid's numeric cells are expressed in.
type DollarUnit string

const (
	UnitThousands DollarUnit = "thousands"
	UnitMillions  DollarUnit = "millions"
)

// Document is one normalized source file.
type Document struct {
	ID            string     `json:"id"`
	Service       string     `json:"service"`
	Appropriation string     `json:"appropriation"`
	Document      string     `json:"document"`
	SourceFile    string     `json:"sourceFile"`
	Type          SourceType `json:"type"`
	Grids         []Grid     `json:"grids"`
}

// Grid is one table extracted from a Document.
type Grid struct {
	Name           string     `json:"name"`
	NavigationPath []string   `json:"navigationPath"`
	Columns        []Column   `json:"columns"`
	Rows           []Row      `json:"rows"`
	TotalRowCount  int        `json:"totalRowCount"`
	Truncated      bool       `json:"truncated"`
	DollarUnit     DollarUnit `json:"dollarUnit"`
}

// Column describes one typed column of a Grid. Codes are unique within
// their Grid.
type Column struct {
	Code         string       `json:"code"`
	Label        string       `json:"label"`
	SemanticType SemanticType `json:"semanticType"`
}

// Row holds cell values keyed by column code. Numeric columns hold
// float64 or nil, never strings. Group carries the current-group context
// threaded by the tree fold.
type Row struct {
	RowType RowType        `json:"rowType"`
	Cells   map[string]any `json:"cells"`
	Group   string         `json:"group,omitempty"`
}
