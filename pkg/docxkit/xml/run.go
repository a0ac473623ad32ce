package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Run represents a run of text with common properties
type Run struct {
	Properties *RunProperties
	// Content keeps text, breaks and tabs in order
	Content []RunContent
}

// UnmarshalXML implements custom XML unmarshaling to preserve content order
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, &text)
			case "br", "cr":
				var br Break
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, &br)
			case "tab":
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, &Tab{})
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

// MarshalXML implements custom XML marshaling for Run to ensure proper namespacing
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("r")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: wName("rPr")}); err != nil {
			return err
		}
	}

	for _, c := range r.Content {
		var err error
		switch v := c.(type) {
		case *Text:
			err = e.EncodeElement(v, xml.StartElement{Name: wName("t")})
		case *Break:
			err = e.EncodeElement(v, xml.StartElement{Name: wName("br")})
		case *Tab:
			err = encodeEmpty(e, "tab")
		}
		if err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the text content of a run; breaks read as newlines and tabs as tabs
func (r *Run) GetText() string {
	var sb strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case *Text:
			sb.WriteString(v.Content)
		case *Break:
			sb.WriteByte('\n')
		case *Tab:
			sb.WriteByte('\t')
		}
	}
	return sb.String()
}

// IsTextOnly reports whether the run holds nothing but w:t elements
func (r *Run) IsTextOnly() bool {
	if len(r.Content) == 0 {
		return false
	}
	for _, c := range r.Content {
		if _, ok := c.(*Text); !ok {
			return false
		}
	}
	return true
}

// RunProperties represents run formatting properties
type RunProperties struct {
	Fonts     *Fonts     `xml:"rFonts"`
	Bold      *OnOff     `xml:"b"`
	Italic    *OnOff     `xml:"i"`
	Color     *Color     `xml:"color"`
	Size      *HalfPoint `xml:"sz"`
	SizeCs    *HalfPoint `xml:"szCs"`
	Underline *Underline `xml:"u"`
}

// MarshalXML writes the run properties in schema order
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("rPr")}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if f := p.Fonts; f != nil {
		var attrs []xml.Attr
		if f.ASCII != "" {
			attrs = append(attrs, wAttr("ascii", f.ASCII))
		}
		if f.HAnsi != "" {
			attrs = append(attrs, wAttr("hAnsi", f.HAnsi))
		}
		if f.EastAsia != "" {
			attrs = append(attrs, wAttr("eastAsia", f.EastAsia))
		}
		if err := encodeEmpty(e, "rFonts", attrs...); err != nil {
			return err
		}
	}
	if err := encodeOnOff(e, "b", p.Bold); err != nil {
		return err
	}
	if err := encodeOnOff(e, "i", p.Italic); err != nil {
		return err
	}
	if p.Color != nil {
		if err := encodeVal(e, "color", p.Color.Val); err != nil {
			return err
		}
	}
	if p.Size != nil {
		if err := encodeEmpty(e, "sz", wIntAttr("val", p.Size.Val)); err != nil {
			return err
		}
	}
	if p.SizeCs != nil {
		if err := encodeEmpty(e, "szCs", wIntAttr("val", p.SizeCs.Val)); err != nil {
			return err
		}
	}
	if p.Underline != nil {
		if err := encodeVal(e, "u", p.Underline.Val); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func encodeOnOff(e *xml.Encoder, local string, o *OnOff) error {
	if o == nil {
		return nil
	}
	if o.Val == "" {
		return encodeEmpty(e, local)
	}
	return encodeVal(e, local, o.Val)
}

// Text represents text content
type Text struct {
	Space   string `xml:"space,attr"`
	Content string `xml:",chardata"`
}

func (t Text) isRunContent() {}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: wName("t")}
	if t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Space: namespaceXML, Local: "space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// Break represents a line break
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

func (b Break) isRunContent() {}

// MarshalXML implements xml.Marshaler for Break
func (b Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if b.Type != "" {
		return encodeEmpty(e, "br", wAttr("type", b.Type))
	}
	return encodeEmpty(e, "br")
}

// Tab represents a tab character
type Tab struct{}

func (t Tab) isRunContent() {}

// Fonts represents the fonts of a run
type Fonts struct {
	ASCII    string `xml:"ascii,attr,omitempty"`
	HAnsi    string `xml:"hAnsi,attr,omitempty"`
	EastAsia string `xml:"eastAsia,attr,omitempty"`
}

// Color represents text color
type Color struct {
	Val string `xml:"val,attr"`
}

// HalfPoint is a measurement in half points (w:sz)
type HalfPoint struct {
	Val int `xml:"val,attr"`
}

// Underline represents underline formatting
type Underline struct {
	Val string `xml:"val,attr"`
}
