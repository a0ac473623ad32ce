package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Paragraph represents a paragraph in the document
type Paragraph struct {
	Properties *ParagraphProperties
	// Runs in document order. Runs nested in hyperlinks, insertions and
	// smart tags are flattened into this slice when parsing.
	Runs []Run
}

func (p Paragraph) isBodyElement() {}

// containers whose runs count as paragraph text
var runContainers = map[string]bool{
	"hyperlink":  true,
	"ins":        true,
	"smartTag":   true,
	"fldSimple":  true,
	"sdt":        true,
	"sdtContent": true,
}

// UnmarshalXML implements custom XML unmarshaling to preserve run order
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			switch {
			case t.Name.Local == "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case t.Name.Local == "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			case runContainers[t.Name.Local]:
				// Descend: the container's own end tag is handled below
				continue
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

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("p")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: wName("pPr")}); err != nil {
			return err
		}
	}

	for i := range p.Runs {
		if err := e.EncodeElement(&p.Runs[i], xml.StartElement{Name: wName("r")}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the concatenated text of all runs in a paragraph
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for i := range p.Runs {
		sb.WriteString(p.Runs[i].GetText())
	}
	return sb.String()
}

// ParagraphProperties represents paragraph formatting properties
type ParagraphProperties struct {
	Style     *Style         `xml:"pStyle"`
	Spacing   *Spacing       `xml:"spacing"`
	Alignment *Alignment     `xml:"jc"`
	RunProps  *RunProperties `xml:"rPr"`
}

// MarshalXML writes the properties in schema order
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("pPr")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != nil {
		if err := encodeVal(e, "pStyle", p.Style.Val); err != nil {
			return err
		}
	}
	if p.Spacing != nil {
		if err := e.EncodeElement(p.Spacing, xml.StartElement{Name: wName("spacing")}); err != nil {
			return err
		}
	}
	if p.Alignment != nil {
		if err := encodeVal(e, "jc", p.Alignment.Val); err != nil {
			return err
		}
	}
	if p.RunProps != nil {
		if err := e.EncodeElement(p.RunProps, xml.StartElement{Name: wName("rPr")}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Alignment represents paragraph justification
type Alignment struct {
	Val string `xml:"val,attr"`
}

// Spacing represents paragraph spacing
type Spacing struct {
	Before   int    `xml:"before,attr,omitempty"`
	After    int    `xml:"after,attr,omitempty"`
	Line     int    `xml:"line,attr,omitempty"`
	LineRule string `xml:"lineRule,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for Spacing
func (s Spacing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var attrs []xml.Attr
	if s.Before != 0 {
		attrs = append(attrs, wIntAttr("before", s.Before))
	}
	if s.After != 0 {
		attrs = append(attrs, wIntAttr("after", s.After))
	}
	if s.Line != 0 {
		attrs = append(attrs, wIntAttr("line", s.Line))
	}
	if s.LineRule != "" {
		attrs = append(attrs, wAttr("lineRule", s.LineRule))
	}
	return encodeEmpty(e, "spacing", attrs...)
}
