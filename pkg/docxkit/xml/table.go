package xml

import (
	"encoding/xml"
	"strings"
)

// Table represents a table in the document
type Table struct {
	Properties *TableProperties `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []TableRow       `xml:"tr"`
}

func (t Table) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tbl")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: wName("tblPr")}); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: wName("tblGrid")}); err != nil {
			return err
		}
	}
	for i := range t.Rows {
		if err := e.EncodeElement(&t.Rows[i], xml.StartElement{Name: wName("tr")}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Paragraphs returns every paragraph of every cell, row by row
func (t *Table) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for r := range t.Rows {
		for c := range t.Rows[r].Cells {
			cell := &t.Rows[r].Cells[c]
			for p := range cell.Paragraphs {
				out = append(out, &cell.Paragraphs[p])
			}
		}
	}
	return out
}

// TableProperties represents table formatting properties
type TableProperties struct {
	Style   *Style        `xml:"tblStyle"`
	Width   *Width        `xml:"tblW"`
	Borders *TableBorders `xml:"tblBorders"`
	Layout  *TableLayout  `xml:"tblLayout"`
}

// MarshalXML writes the properties in schema order
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tblPr")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != nil {
		if err := encodeVal(e, "tblStyle", p.Style.Val); err != nil {
			return err
		}
	}
	if p.Width != nil {
		if err := p.Width.encode(e, "tblW"); err != nil {
			return err
		}
	}
	if p.Borders != nil {
		if err := e.EncodeElement(p.Borders, xml.StartElement{Name: wName("tblBorders")}); err != nil {
			return err
		}
	}
	if p.Layout != nil {
		if err := encodeEmpty(e, "tblLayout", wAttr("type", p.Layout.Type)); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableLayout represents table layout mode
type TableLayout struct {
	Type string `xml:"type,attr"`
}

// TableGrid represents table column definitions
type TableGrid struct {
	Columns []GridColumn `xml:"gridCol"`
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tblGrid")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, col := range g.Columns {
		if err := encodeEmpty(e, "gridCol", wIntAttr("w", col.Width)); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GridColumn represents a table column
type GridColumn struct {
	Width int `xml:"w,attr"`
}

// TableRow represents a row in a table
type TableRow struct {
	Cells []TableCell `xml:"tc"`
}

// MarshalXML implements custom XML marshaling for TableRow to ensure proper namespacing
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tr")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for i := range r.Cells {
		if err := e.EncodeElement(&r.Cells[i], xml.StartElement{Name: wName("tc")}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCell represents a cell in a table
type TableCell struct {
	Properties *TableCellProperties `xml:"tcPr"`
	Paragraphs []Paragraph          `xml:"p"`
}

// MarshalXML implements custom XML marshaling for TableCell to ensure proper namespacing
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tc")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: wName("tcPr")}); err != nil {
			return err
		}
	}

	// A cell must end with a paragraph
	paras := c.Paragraphs
	if len(paras) == 0 {
		paras = []Paragraph{{}}
	}
	for i := range paras {
		if err := e.EncodeElement(&paras[i], xml.StartElement{Name: wName("p")}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the concatenated text of all paragraphs in a cell
func (c *TableCell) GetText() string {
	texts := make([]string, 0, len(c.Paragraphs))
	for i := range c.Paragraphs {
		texts = append(texts, c.Paragraphs[i].GetText())
	}
	return strings.Join(texts, "\n")
}

// TableCellProperties represents cell properties
type TableCellProperties struct {
	Width   *Width            `xml:"tcW"`
	Borders *TableCellBorders `xml:"tcBorders"`
	VAlign  *VerticalAlign    `xml:"vAlign"`
}

// MarshalXML writes the cell properties in schema order
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tcPr")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Width != nil {
		if err := p.Width.encode(e, "tcW"); err != nil {
			return err
		}
	}
	if p.Borders != nil {
		if err := e.EncodeElement(p.Borders, xml.StartElement{Name: wName("tcBorders")}); err != nil {
			return err
		}
	}
	if p.VAlign != nil {
		if err := encodeVal(e, "vAlign", p.VAlign.Val); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// VerticalAlign represents vertical alignment inside a cell
type VerticalAlign struct {
	Val string `xml:"val,attr"`
}

// Width represents width settings
type Width struct {
	Val  int    `xml:"w,attr"`
	Type string `xml:"type,attr"`
}

func (w Width) encode(e *xml.Encoder, local string) error {
	typ := w.Type
	if typ == "" {
		typ = "dxa"
	}
	return encodeEmpty(e, local, wIntAttr("w", w.Val), wAttr("type", typ))
}

// TableBorders represents borders for a table (w:tblBorders),
// inner borders included
type TableBorders struct {
	Top     *BorderProperties `xml:"top"`
	Left    *BorderProperties `xml:"left"`
	Bottom  *BorderProperties `xml:"bottom"`
	Right   *BorderProperties `xml:"right"`
	InsideH *BorderProperties `xml:"insideH"`
	InsideV *BorderProperties `xml:"insideV"`
}

// MarshalXML implements custom XML marshaling for TableBorders
func (b TableBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tblBorders")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	edges := []struct {
		name string
		prop *BorderProperties
	}{
		{"top", b.Top},
		{"left", b.Left},
		{"bottom", b.Bottom},
		{"right", b.Right},
		{"insideH", b.InsideH},
		{"insideV", b.InsideV},
	}
	for _, edge := range edges {
		if err := edge.prop.encode(e, edge.name); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCellBorders represents borders for a table cell
type TableCellBorders struct {
	Top    *BorderProperties `xml:"top"`
	Left   *BorderProperties `xml:"left"`
	Bottom *BorderProperties `xml:"bottom"`
	Right  *BorderProperties `xml:"right"`
}

// MarshalXML implements custom XML marshaling for TableCellBorders
func (b TableCellBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("tcBorders")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, edge := range []struct {
		name string
		prop *BorderProperties
	}{
		{"top", b.Top},
		{"left", b.Left},
		{"bottom", b.Bottom},
		{"right", b.Right},
	} {
		if err := edge.prop.encode(e, edge.name); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// BorderProperties represents border styling
type BorderProperties struct {
	Val   string `xml:"val,attr,omitempty"`
	Sz    string `xml:"sz,attr,omitempty"`
	Space string `xml:"space,attr,omitempty"`
	Color string `xml:"color,attr,omitempty"`
}

func (b *BorderProperties) encode(e *xml.Encoder, local string) error {
	if b == nil {
		return nil
	}
	var attrs []xml.Attr
	if b.Val != "" {
		attrs = append(attrs, wAttr("val", b.Val))
	}
	if b.Sz != "" {
		attrs = append(attrs, wAttr("sz", b.Sz))
	}
	if b.Space != "" {
		attrs = append(attrs, wAttr("space", b.Space))
	}
	if b.Color != "" {
		attrs = append(attrs, wAttr("color", b.Color))
	}
	return encodeEmpty(e, local, attrs...)
}
