package extract

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/dgallion1/jbooks/internal/grid"
	"github.com/dgallion1/jbooks/internal/textutil"
)

// The nested-tree export is the one format that declares its table
// structure explicitly: typed columns, typed rows, cells keyed by column
// code. It ships both as JSON and as the same schema serialized to XML.

type treeNode struct {
	Kind       string       `json:"kind"`
	Label      string       `json:"label"`
	GenContent *treeContent `json:"genContent,omitempty"`
	Children   []*treeNode  `json:"children,omitempty"`
	Columns    []treeColumn `json:"columns,omitempty"`
	Rows       []treeRow    `json:"rows,omitempty"`
}

type treeContent struct {
	Children []*treeNode `json:"children,omitempty"`
}

type treeColumn struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type treeRow struct {
	Kind  string     `json:"kind"`
	Cells []treeCell `json:"cells"`
}

type treeCell struct {
	ColumnCode string `json:"columnCode"`
	Value      string `json:"value"`
}

type treeRoot struct {
	DocInfo    json.RawMessage `json:"docInfo"`
	GenContent *treeNode       `json:"genContent"`
}

// Only section-like kinds contribute a breadcrumb segment; purely
// structural containers are transparent.
var sectionKinds = map[string]bool{
	"volume":         true,
	"appropriation":  true,
	"budgetActivity": true,
	"chapter":        true,
	"section":        true,
	"exhibit":        true,
}

var structuralKinds = map[string]bool{
	"document":  true,
	"container": true,
	"group":     true,
	"page":      true,
	"body":      true,
}

// Cell codes excluded from synthesized schemas: long narrative prose has
// no place in a numeric grid.
const narrativeCode = "Narrative"

// rowLabelCode is the conventional row-label column in synthesized
// schemas.
const rowLabelCode = "RowText"

// activityColumn is the declared column that receives the current-activity
// designation threaded by the row fold.
const activityColumn = "Activity"

var activityRe = regexp.MustCompile(`(?i)^\s*(?:budget\s+)?activity\s+(\d+[0-9A-Za-z]*)`)

// ExtractTreeJSON parses the JSON carrier of the nested-tree format.
func ExtractTreeJSON(data []byte, maxRows int) ([]grid.Grid, error) {
	var root treeRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse tree json: %w", err)
	}
	if root.GenContent == nil {
		return nil, fmt.Errorf("tree json has no genContent")
	}
	return walkTree(root.GenContent, nil, maxRows), nil
}

// XML carrier of the same schema.
type xmlTreeRoot struct {
	XMLName    xml.Name     `xml:"document"`
	GenContent *xmlTreeNode `xml:"genContent"`
}

type xmlTreeNode struct {
	Kind       string        `xml:"kind,attr"`
	Label      string        `xml:"label,attr"`
	GenContent *xmlTreeWrap  `xml:"genContent"`
	Children   []xmlTreeNode `xml:"node"`
	Columns    []xmlTreeCol  `xml:"column"`
	Rows       []xmlTreeRow  `xml:"row"`
}

type xmlTreeWrap struct {
	Children []xmlTreeNode `xml:"node"`
}

type xmlTreeCol struct {
	Code  string `xml:"code,attr"`
	Label string `xml:"label,attr"`
	Type  string `xml:"type,attr"`
}

type xmlTreeRow struct {
	Kind  string        `xml:"kind,attr"`
	Cells []xmlTreeCell `xml:"cell"`
}

type xmlTreeCell struct {
	Column string `xml:"column,attr"`
	Value  string `xml:"value,attr"`
}

// ExtractTreeXML parses the XML carrier of the nested-tree format. The
// carrier is well-formed, unlike the tagged exports, so a strict decode
// with charset support is appropriate.
func ExtractTreeXML(data []byte, maxRows int) ([]grid.Grid, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	var root xmlTreeRoot
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse tree xml: %w", err)
	}
	if root.GenContent == nil {
		return nil, fmt.Errorf("tree xml has no genContent")
	}
	node := &treeNode{Kind: "document"}
	for i := range root.GenContent.Children {
		node.Children = append(node.Children, convertXMLNode(&root.GenContent.Children[i]))
	}
	return walkTree(node, nil, maxRows), nil
}

func convertXMLNode(x *xmlTreeNode) *treeNode {
	n := &treeNode{Kind: x.Kind, Label: x.Label}
	for i := range x.Children {
		n.Children = append(n.Children, convertXMLNode(&x.Children[i]))
	}
	if x.GenContent != nil {
		n.GenContent = &treeContent{}
		for i := range x.GenContent.Children {
			n.GenContent.Children = append(n.GenContent.Children, convertXMLNode(&x.GenContent.Children[i]))
		}
	}
	for _, c := range x.Columns {
		n.Columns = append(n.Columns, treeColumn{Code: c.Code, Label: c.Label, Type: c.Type})
	}
	for _, r := range x.Rows {
		row := treeRow{Kind: r.Kind}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, treeCell{ColumnCode: c.Column, Value: c.Value})
		}
		n.Rows = append(n.Rows, row)
	}
	return n
}

// childrenOf unwraps a node: different kinds place children either on the
// node itself or inside its generated-content block.
func childrenOf(n *treeNode) []*treeNode {
	if len(n.Children) > 0 {
		return n.Children
	}
	if n.GenContent != nil {
		return n.GenContent.Children
	}
	return nil
}

// walkTree descends the node tree accumulating section breadcrumbs and
// collecting leaf tables.
func walkTree(n *treeNode, path []string, maxRows int) []grid.Grid {
	var grids []grid.Grid
	switch {
	case n.Kind == "table":
		if g, ok := tableFromNode(n, path, maxRows); ok {
			grids = append(grids, g)
		}
	case sectionKinds[n.Kind]:
		next := path
		if label := textutil.CollapseSpace(n.Label); label != "" {
			next = append(append([]string{}, path...), label)
		}
		for _, c := range childrenOf(n) {
			grids = append(grids, walkTree(c, next, maxRows)...)
		}
	case structuralKinds[n.Kind]:
		for _, c := range childrenOf(n) {
			grids = append(grids, walkTree(c, path, maxRows)...)
		}
	}
	return grids
}

// tableColumns maps declared columns to the normalized schema, or
// synthesizes one from cell references when the source declares none.
func tableColumns(n *treeNode) []grid.Column {
	if len(n.Columns) > 0 {
		cols := make([]grid.Column, 0, len(n.Columns))
		for _, c := range n.Columns {
			st := grid.TypeNumeric
			if c.Type == "text" {
				st = grid.TypeText
			}
			label := textutil.CollapseSpace(c.Label)
			if label == "" {
				label = c.Code
			}
			cols = append(cols, grid.Column{Code: c.Code, Label: label, SemanticType: st})
		}
		return cols
	}

	// Implicit schema: synthesize columns from referenced codes in
	// first-appearance order, excluding the long-narrative code. Some
	// report sections use this pattern in the hundreds.
	seen := make(map[string]bool)
	var cols []grid.Column
	for _, r := range n.Rows {
		for _, c := range r.Cells {
			if c.ColumnCode == "" || c.ColumnCode == narrativeCode || seen[c.ColumnCode] {
				continue
			}
			seen[c.ColumnCode] = true
			st := grid.TypeNumeric
			if c.ColumnCode == rowLabelCode {
				st = grid.TypeText
			}
			cols = append(cols, grid.Column{Code: c.ColumnCode, Label: c.ColumnCode, SemanticType: st})
		}
	}
	return cols
}

// rowFold is the accumulator threaded through one forward pass over a
// table's ordered rows: the current activity designation (from header
// rows) and the current group label (from subtotal rows).
type rowFold struct {
	Activity string
	Group    string
}

// classifyTreeRows converts declared rows into normalized rows, threading
// the fold state: header rows may set the current activity and reset the
// group, subtotal rows seed the group attached to later data rows, and
// data rows lacking an Activity value inherit the current one.
func classifyTreeRows(rows []treeRow, cols []grid.Column, st rowFold) ([]grid.Row, rowFold) {
	byCode := make(map[string]grid.Column, len(cols))
	var labelCode string
	for _, c := range cols {
		byCode[c.Code] = c
		if labelCode == "" && c.SemanticType == grid.TypeText {
			labelCode = c.Code
		}
	}

	var out []grid.Row
	for _, tr := range rows {
		r := grid.Row{RowType: grid.RowType(tr.Kind), Cells: make(map[string]any, len(cols))}
		switch r.RowType {
		case grid.RowData, grid.RowSubtotal, grid.RowTotal, grid.RowHeader, grid.RowBlank:
		default:
			r.RowType = grid.RowData
		}

		for _, c := range cols {
			r.Cells[c.Code] = nil
		}
		label := ""
		for _, cell := range tr.Cells {
			col, ok := byCode[cell.ColumnCode]
			if !ok {
				continue
			}
			if col.SemanticType == grid.TypeNumeric {
				if n, ok := textutil.ParseAmount(cell.Value); ok {
					r.Cells[col.Code] = n
				}
			} else {
				v := textutil.CollapseSpace(cell.Value)
				if v != "" {
					r.Cells[col.Code] = v
				}
				if col.Code == labelCode {
					label = v
				}
			}
		}
		if label == "" && len(tr.Cells) > 0 {
			label = textutil.CollapseSpace(tr.Cells[0].Value)
		}

		switch r.RowType {
		case grid.RowHeader:
			if m := activityRe.FindStringSubmatch(label); m != nil {
				st.Activity = m[1]
			}
			st.Group = ""
		case grid.RowSubtotal:
			st.Group = label
		case grid.RowData:
			if st.Group != "" {
				r.Group = st.Group
			}
			if col, ok := byCode[activityColumn]; ok && st.Activity != "" &&
				col.SemanticType == grid.TypeText && r.Cells[activityColumn] == nil {
				r.Cells[activityColumn] = st.Activity
			}
		}
		out = append(out, r)
	}
	return out, st
}

func tableFromNode(n *treeNode, path []string, maxRows int) (grid.Grid, bool) {
	cols := tableColumns(n)
	if len(cols) == 0 {
		return grid.Grid{}, false
	}
	rows, _ := classifyTreeRows(n.Rows, cols, rowFold{})

	name := textutil.CollapseSpace(n.Label)
	if name == "" && len(path) > 0 {
		name = path[len(path)-1]
	}
	if name == "" {
		name = "Table"
	}

	g := grid.Grid{
		Name:           name,
		NavigationPath: append([]string{}, path...),
		Columns:        cols,
		Rows:           rows,
		DollarUnit:     grid.DetectDollarUnit(name, strings.Join(path, " ")),
	}
	if !grid.Canonicalize(&g, maxRows) {
		return grid.Grid{}, false
	}
	return g, true
}
