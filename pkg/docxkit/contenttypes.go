package docxkit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Well-known part names
const (
	ContentTypesPart      = "[Content_Types].xml"
	RootRelationshipsPart = "_rels/.rels"
	DocumentPart          = "word/document.xml"
	DocumentRelsPart      = "word/_rels/document.xml.rels"
	StylesPart            = "word/styles.xml"
	SettingsPart          = "word/settings.xml"
	CorePropertiesPart    = "docProps/core.xml"
	AppPropertiesPart     = "docProps/app.xml"
)

// Content types
const (
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML           = "application/xml"
	ContentTypeDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles        = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeSettings      = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ContentTypeCore          = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeApp           = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Relationship types
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelTypeCore           = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeApp            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
)

const (
	namespaceContentTypes         = "http://schemas.openxmlformats.org/package/2006/content-types"
	namespacePackageRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// ContentTypes is the [Content_Types].xml manifest
type ContentTypes struct {
	XMLName   xml.Name   `xml:"Types"`
	Namespace string     `xml:"xmlns,attr"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

// Default maps a file extension to a content type
type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Override maps one part name to a content type
type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeFor returns the content type a reader would assign to a part
func (ct *ContentTypes) ContentTypeFor(part string) (string, bool) {
	name := "/" + strings.TrimPrefix(part, "/")
	for _, o := range ct.Overrides {
		if strings.EqualFold(o.PartName, name) {
			return o.ContentType, true
		}
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType, true
		}
	}
	return "", false
}

// Relationship represents a relationship in the package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// marshalPart serializes v with the standalone declaration Word writes
func marshalPart(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal part: %w", err)
	}
	return buf.Bytes(), nil
}

// relsPartFor returns the relationships part of a source part:
// "word/document.xml" -> "word/_rels/document.xml.rels", "" -> "_rels/.rels"
func relsPartFor(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// sourceOfRels is the inverse of relsPartFor
func sourceOfRels(relsPart string) (string, bool) {
	dir, base := path.Split(relsPart)
	if !strings.HasSuffix(dir, "_rels/") || !strings.HasSuffix(base, ".rels") {
		return "", false
	}
	return strings.TrimSuffix(dir, "_rels/") + strings.TrimSuffix(base, ".rels"), true
}

// resolveTarget resolves an internal relationship target against the
// directory of its source part
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}
