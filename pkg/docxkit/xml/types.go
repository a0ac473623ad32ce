package xml

import (
	"encoding/xml"
	"strconv"
)

// Namespaces used in the body part.
const (
	NamespaceMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	namespaceXML           = "http://www.w3.org/XML/1998/namespace"
)

// Header is the XML declaration Word expects at the top of every part.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// BodyElement represents any element that can appear in a document body
type BodyElement interface {
	isBodyElement()
}

// RunContent represents any content that can appear inside a run
type RunContent interface {
	isRunContent()
}

// Empty represents an empty element (used for boolean properties)
type Empty struct{}

// OnOff is a toggle property such as w:b. A missing val means on.
type OnOff struct {
	Val string `xml:"val,attr"`
}

// Enabled reports whether the toggle is switched on
func (o *OnOff) Enabled() bool {
	if o == nil {
		return false
	}
	switch o.Val {
	case "0", "false", "off":
		return false
	}
	return true
}

// Style represents a style reference
type Style struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Style
func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return encodeVal(e, start.Name.Local, s.Val)
}

// wName returns a w:-prefixed element name
func wName(local string) xml.Name {
	return xml.Name{Local: "w:" + local}
}

// wAttr returns a w:-prefixed attribute
func wAttr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: "w:" + local}, Value: value}
}

// wIntAttr returns a w:-prefixed attribute holding an integer
func wIntAttr(local string, value int) xml.Attr {
	return wAttr(local, strconv.Itoa(value))
}

// encodeEmpty writes a self-closing element with the given attributes.
// The local name may or may not carry the w: prefix already.
func encodeEmpty(e *xml.Encoder, local string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: prefixed(local), Attr: attrs}
	return e.EncodeElement(struct{}{}, start)
}

// encodeVal writes <w:local w:val="val"/>
func encodeVal(e *xml.Encoder, local, val string) error {
	return encodeEmpty(e, local, wAttr("val", val))
}

func prefixed(local string) xml.Name {
	if len(local) > 2 && local[:2] == "w:" {
		return xml.Name{Local: local}
	}
	return wName(local)
}
