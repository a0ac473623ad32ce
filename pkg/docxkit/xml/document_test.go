package xml

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:jc w:val="center"/></w:pPr>
      <w:r><w:rPr><w:b/><w:sz w:val="36"/></w:rPr><w:t>착공신고서</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>{{사업</w:t></w:r>
      <w:hyperlink><w:r><w:t>장명}}</w:t></w:r></w:hyperlink>
      <w:proofErr w:type="spellStart"/>
    </w:p>
    <w:tbl>
      <w:tblPr><w:tblW w:w="9000" w:type="dxa"/></w:tblPr>
      <w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="7000"/></w:tblGrid>
      <w:tr>
        <w:tc><w:p><w:r><w:t>주소</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>{{주소}}</w:t><w:br/><w:t>line</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:sectPr>
      <w:pgSz w:w="11906" w:h="16838"/>
      <w:pgMar w:top="1152" w:right="1152" w:bottom="1152" w:left="1152" w:header="720" w:footer="720" w:gutter="0"/>
    </w:sectPr>
  </w:body>
</w:document>`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	if got := len(doc.Body.Elements); got != 3 {
		t.Fatalf("expected 3 body elements, got %d", got)
	}

	title, ok := doc.Body.Elements[0].(*Paragraph)
	if !ok {
		t.Fatalf("first element is %T, want *Paragraph", doc.Body.Elements[0])
	}
	if title.Properties == nil || title.Properties.Alignment == nil || title.Properties.Alignment.Val != "center" {
		t.Errorf("title alignment not parsed: %+v", title.Properties)
	}
	props := title.Runs[0].Properties
	if props == nil || !props.Bold.Enabled() || props.Size == nil || props.Size.Val != 36 {
		t.Errorf("title run properties not parsed: %+v", props)
	}

	split := doc.Body.Elements[1].(*Paragraph)
	if got := len(split.Runs); got != 2 {
		t.Errorf("expected runs inside hyperlink to be flattened, got %d runs", got)
	}
	if got := split.GetText(); got != "{{사업장명}}" {
		t.Errorf("GetText() = %q", got)
	}

	if doc.Body.SectionProperties == nil {
		t.Fatal("section properties missing")
	}
	wantMargins := &PageMargins{Top: 1152, Right: 1152, Bottom: 1152, Left: 1152, Header: 720, Footer: 720}
	if diff := cmp.Diff(wantMargins, doc.Body.SectionProperties.PageMargins); diff != "" {
		t.Errorf("page margins mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyParagraphsDescendsIntoTables(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatal(err)
	}

	var texts []string
	for _, p := range doc.Body.Paragraphs() {
		texts = append(texts, p.GetText())
	}
	want := []string{"착공신고서", "{{사업장명}}", "주소", "{{주소}}\nline"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("paragraph texts mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatal(err)
	}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(out)

	for _, want := range []string{
		Header,
		`<w:document xmlns:w="` + NamespaceMain + `"`,
		`<w:jc w:val="center">`,
		`<w:sz w:val="36">`,
		`<w:gridCol w:w="2000">`,
		`<w:tblW w:w="9000" w:type="dxa">`,
		`<w:pgSz w:w="11906" w:h="16838">`,
		`w:gutter="0"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("marshaled output missing %q", want)
		}
	}

	if strings.Index(s, "<w:tbl>") > strings.Index(s, "<w:sectPr>") {
		t.Error("sectPr must be the last child of the body")
	}
	if strings.Contains(s, "proofErr") {
		t.Error("unknown paragraph children should be dropped")
	}

	again, err := ParseDocument(strings.NewReader(s))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got, want := len(again.Body.Paragraphs()), len(doc.Body.Paragraphs()); got != want {
		t.Errorf("paragraph count after round trip = %d, want %d", got, want)
	}
}

func TestTextPreserveSpace(t *testing.T) {
	tests := []struct {
		name string
		text Text
		want string
	}{
		{
			name: "plain",
			text: Text{Content: "abc"},
			want: `<w:t>abc</w:t>`,
		},
		{
			name: "preserve",
			text: Text{Space: "preserve", Content: " a  b "},
			want: `<w:t xml:space="preserve"> a  b </w:t>`,
		},
		{
			name: "escaped",
			text: Text{Content: "a<b&c"},
			want: `<w:t>a&lt;b&amp;c</w:t>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := Run{Content: []RunContent{&tt.text}}
			p := Paragraph{Runs: []Run{run}}
			out, err := Marshal(&Document{Body: &Body{Elements: []BodyElement{&p}}})
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(out), tt.want) {
				t.Errorf("output %s does not contain %s", out, tt.want)
			}
		})
	}
}

func TestCellBordersMarshal(t *testing.T) {
	single := &BorderProperties{Val: "single", Sz: "4", Space: "0", Color: "000000"}
	cell := TableCell{
		Properties: &TableCellProperties{
			Width:   &Width{Val: 2000},
			Borders: &TableCellBorders{Top: single, Left: single, Bottom: single, Right: single},
		},
	}
	tbl := &Table{
		Grid: &TableGrid{Columns: []GridColumn{{Width: 2000}}},
		Rows: []TableRow{{Cells: []TableCell{cell}}},
	}

	out, err := Marshal(&Document{Body: &Body{Elements: []BodyElement{tbl}}})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)

	order := []string{"<w:tcW", "<w:tcBorders>", "<w:top ", "<w:left ", "<w:bottom ", "<w:right "}
	last := -1
	for _, tag := range order {
		idx := strings.Index(s, tag)
		if idx < 0 {
			t.Fatalf("missing %s in %s", tag, s)
		}
		if idx < last {
			t.Errorf("%s out of order", tag)
		}
		last = idx
	}
	if !strings.Contains(s, `w:val="single" w:sz="4" w:space="0" w:color="000000"`) {
		t.Errorf("border attributes not written: %s", s)
	}
	// empty cells still get a paragraph
	if !strings.Contains(s, "<w:p></w:p></w:tc>") {
		t.Errorf("empty cell should carry one paragraph: %s", s)
	}
}

func TestOnOffEnabled(t *testing.T) {
	tests := []struct {
		in   *OnOff
		want bool
	}{
		{nil, false},
		{&OnOff{}, true},
		{&OnOff{Val: "1"}, true},
		{&OnOff{Val: "true"}, true},
		{&OnOff{Val: "0"}, false},
		{&OnOff{Val: "false"}, false},
		{&OnOff{Val: "off"}, false},
	}
	for _, tt := range tests {
		if got := tt.in.Enabled(); got != tt.want {
			t.Errorf("Enabled(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
