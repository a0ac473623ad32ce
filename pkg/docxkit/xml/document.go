package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Document represents a Word document structure
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
}

// MarshalXML writes the w:document root with the w and r namespace declarations
func (doc Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: wName("document"),
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:w"}, Value: NamespaceMain},
			{Name: xml.Name{Local: "xmlns:r"}, Value: NamespaceRelationships},
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	body := doc.Body
	if body == nil {
		body = &Body{}
	}
	if err := e.EncodeElement(body, xml.StartElement{Name: wName("body")}); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Body represents the document body
type Body struct {
	// Elements maintains the order of all body elements
	Elements []BodyElement
	// SectionProperties closes the body; Word requires it last
	SectionProperties *SectionProperties
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &table)
			case "sectPr":
				var sect SectionProperties
				if err := d.DecodeElement(&sect, &t); err != nil {
					return err
				}
				b.SectionProperties = &sect
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

// MarshalXML implements custom XML marshaling to preserve element order
func (b Body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = wName("body")
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, elem := range b.Elements {
		switch el := elem.(type) {
		case *Paragraph:
			if err := e.EncodeElement(el, xml.StartElement{Name: wName("p")}); err != nil {
				return err
			}
		case *Table:
			if err := e.EncodeElement(el, xml.StartElement{Name: wName("tbl")}); err != nil {
				return err
			}
		}
	}

	if b.SectionProperties != nil {
		if err := e.EncodeElement(b.SectionProperties, xml.StartElement{Name: wName("sectPr")}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Paragraphs returns every paragraph in document order, descending into table cells
func (b *Body) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, elem := range b.Elements {
		switch el := elem.(type) {
		case *Paragraph:
			out = append(out, el)
		case *Table:
			out = append(out, el.Paragraphs()...)
		}
	}
	return out
}

// SectionProperties holds the page setup of the final section
type SectionProperties struct {
	PageSize    *PageSize    `xml:"pgSz"`
	PageMargins *PageMargins `xml:"pgMar"`
}

// MarshalXML implements custom XML marshaling for SectionProperties
func (s SectionProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("sectPr")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if s.PageSize != nil {
		if err := encodeEmpty(e, "pgSz", wIntAttr("w", s.PageSize.Width), wIntAttr("h", s.PageSize.Height)); err != nil {
			return err
		}
	}
	if m := s.PageMargins; m != nil {
		err := encodeEmpty(e, "pgMar",
			wIntAttr("top", m.Top),
			wIntAttr("right", m.Right),
			wIntAttr("bottom", m.Bottom),
			wIntAttr("left", m.Left),
			wIntAttr("header", m.Header),
			wIntAttr("footer", m.Footer),
			wIntAttr("gutter", m.Gutter),
		)
		if err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// PageSize is the page size in twentieths of a point
type PageSize struct {
	Width  int `xml:"w,attr"`
	Height int `xml:"h,attr"`
}

// PageMargins are the page margins in twentieths of a point
type PageMargins struct {
	Top    int `xml:"top,attr"`
	Right  int `xml:"right,attr"`
	Bottom int `xml:"bottom,attr"`
	Left   int `xml:"left,attr"`
	Header int `xml:"header,attr"`
	Footer int `xml:"footer,attr"`
	Gutter int `xml:"gutter,attr"`
}

// ParseDocument parses a Word document XML
func ParseDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Body == nil {
		doc.Body = &Body{}
	}

	return &doc, nil
}

// Marshal serializes a document, XML declaration included
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	if err := xml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return buf.Bytes(), nil
}
