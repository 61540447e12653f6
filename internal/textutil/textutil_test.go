package textutil

import "testing"

func TestParseAmount_LocaleFormats(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5,496,093", 5496093, true},
		{"-286,625", -286625, true},
		{"8,660,304", 8660304, true},
		{"", 0, false},
		{"  ", 0, false},
		{"n/a", 0, false},
		{"$1,200", 1200, true},
		{"(42)", -42, true},
		{"3.5%", 3.5, true},
		{"1 234", 1234, true},
		{"-", 0, false},
		{"12.75", 12.75, true},
		{"0", 0, true},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseAmount(%q): ok=%v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_Stability(t *testing.T) {
	got := Slugify("Defense-Wide Operation & Maintenance CYBERCOM OP-5")
	if got != "defense-wide-operation-maintenance-cybercom-op-5" {
		t.Errorf("unexpected slug: %q", got)
	}
	for _, c := range got {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			t.Errorf("slug contains illegal character %q", c)
		}
	}
	if got[0] == '-' || got[len(got)-1] == '-' {
		t.Errorf("slug has leading/trailing hyphen: %q", got)
	}
}

func TestSlugify_CollapsesRuns(t *testing.T) {
	if got := Slugify("  A -- weird___name!!  "); got != "a-weird-name" {
		t.Errorf("got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	in := `<P>Operation &amp; Maintenance,<br/> Defense-Wide</P>`
	if got := StripTags(in); got != "Operation & Maintenance, Defense-Wide" {
		t.Errorf("got %q", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace(" FY \t2026\n Request "); got != "FY 2026 Request" {
		t.Errorf("got %q", got)
	}
}
