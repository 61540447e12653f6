package extract

import (
	"archive/zip"
	"bytes"
	"reflect"
	"testing"

	"github.com/dgallion1/jbooks/internal/grid"
)

const officeBody = `<w:body>
<w:p><w:r><w:t>Exhibit R-2, RDT&amp;E Budget Item Justification</w:t></w:r></w:p>
<w:tbl>
<w:tr>
<w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Program Element</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>FY 2026 Request</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Total Cost</w:t></w:r></w:p></w:tc>
</w:tr>
<w:tr>
<w:tc><w:p><w:r><w:t>Applied Research</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>1,234</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>5,678</w:t></w:r></w:p></w:tc>
</w:tr>
</w:tbl>
</w:body>`

const officeFlatXML = `<?xml version="1.0"?>
<?mso-application progid="Word.Document"?>
<w:wordDocument xmlns:w="http://schemas.microsoft.com/office/word/2003/wordml">` + officeBody + `</w:wordDocument>`

func TestExtractOfficeXML_BoldHeaderSignal(t *testing.T) {
	grids, err := ExtractOfficeXML([]byte(officeFlatXML), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grids) != 1 {
		t.Fatalf("expected 1 grid, got %d", len(grids))
	}
	g := grids[0]

	if g.Name != "Exhibit R-2, RDT&E Budget Item Justification" {
		t.Errorf("name = %q", g.Name)
	}
	if len(g.Columns) != 3 {
		t.Fatalf("columns = %v", g.Columns)
	}
	if g.Columns[0].Label != "Program Element" || g.Columns[0].SemanticType != grid.TypeText {
		t.Errorf("column 0 = %+v", g.Columns[0])
	}
	if g.Columns[1].SemanticType != grid.TypeNumeric || g.Columns[2].SemanticType != grid.TypeNumeric {
		t.Error("fiscal-labeled columns should be numeric")
	}
	if len(g.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(g.Rows))
	}
	if got := g.Rows[0].Cells[g.Columns[1].Code]; got != 1234.0 {
		t.Errorf("cell = %v, want 1234", got)
	}
}

func TestHasBoldRun_NegatedVal(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{`<w:rPr><w:b/></w:rPr>`, true},
		{`<w:rPr><w:b w:val="true"/></w:rPr>`, true},
		{`<w:rPr><w:b w:val="0"/></w:rPr>`, false},
		{`<w:rPr><w:b w:val="false"/></w:rPr>`, false},
		{`<w:rPr><w:b w:val="off"/></w:rPr>`, false},
		{`<w:rPr></w:rPr>`, false},
		{`<w:b w:val="none"/><w:b/>`, true},
	}
	for _, tt := range tests {
		if got := hasBoldRun(tt.cell); got != tt.want {
			t.Errorf("hasBoldRun(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestExtractDocx_MatchesFlatXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0"?><w:wordDocument xmlns:w="http://schemas.microsoft.com/office/word/2003/wordml">` + officeBody + `</w:wordDocument>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	fromDocx, err := ExtractDocx(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromFlat, err := ExtractOfficeXML([]byte(officeFlatXML), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fromDocx, fromFlat) {
		t.Errorf("docx grids differ from flat XML grids:\n%#v\n%#v", fromDocx, fromFlat)
	}
}

func TestExtractDocx_MissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte(`<styles/>`))
	zw.Close()

	if _, err := ExtractDocx(buf.Bytes(), 0); err == nil {
		t.Error("expected error for docx without word/document.xml")
	}
}
