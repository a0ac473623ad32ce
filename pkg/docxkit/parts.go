package docxkit

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Parts written with the full member set. Readers that validate the fuller
// set need the document relationships, styles, settings and docProps.

const stylesXML = xmlDeclaration + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults>` +
	`<w:rPrDefault><w:rPr><w:rFonts w:ascii="Malgun Gothic" w:hAnsi="Malgun Gothic" w:eastAsia="Malgun Gothic"/><w:sz w:val="20"/><w:szCs w:val="20"/><w:lang w:val="en-US" w:eastAsia="ko-KR"/></w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault>` +
	`</w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/><w:uiPriority w:val="99"/><w:semiHidden/><w:unhideWhenUsed/>` +
	`<w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>` +
	`</w:styles>`

const settingsXML = xmlDeclaration + `<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:defaultTabStop w:val="800"/>` +
	`<w:characterSpacingControl w:val="doNotCompress"/>` +
	`<w:compat><w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="15"/></w:compat>` +
	`</w:settings>`

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// coreProperties is docProps/core.xml. The namespaced names are written
// with literal prefixes, as in the body part.
type coreProperties struct {
	XMLName  xml.Name `xml:"cp:coreProperties"`
	CP       string   `xml:"xmlns:cp,attr"`
	DC       string   `xml:"xmlns:dc,attr"`
	DCTerms  string   `xml:"xmlns:dcterms,attr"`
	XSI      string   `xml:"xmlns:xsi,attr"`
	Title    string   `xml:"dc:title,omitempty"`
	Subject  string   `xml:"dc:subject,omitempty"`
	Creator  string   `xml:"dc:creator,omitempty"`
	Created  *w3cDate `xml:"dcterms:created,omitempty"`
	Modified *w3cDate `xml:"dcterms:modified,omitempty"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func corePropertiesXML(props Properties, modTime time.Time) ([]byte, error) {
	core := coreProperties{
		CP:      "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		DC:      "http://purl.org/dc/elements/1.1/",
		DCTerms: "http://purl.org/dc/terms/",
		XSI:     "http://www.w3.org/2001/XMLSchema-instance",
		Title:   props.Title,
		Subject: props.Subject,
		Creator: props.Creator,
	}
	// Dates only when a fixed time was configured, so output stays reproducible
	if !modTime.IsZero() {
		stamp := modTime.UTC().Format("2006-01-02T15:04:05Z")
		core.Created = &w3cDate{Type: "dcterms:W3CDTF", Value: stamp}
		core.Modified = &w3cDate{Type: "dcterms:W3CDTF", Value: stamp}
	}
	return marshalPart(&core)
}

type appProperties struct {
	XMLName     xml.Name `xml:"Properties"`
	Namespace   string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	DocSecurity int      `xml:"DocSecurity"`
	AppVersion  string   `xml:"AppVersion"`
}

func appPropertiesXML(version string) ([]byte, error) {
	return marshalPart(&appProperties{
		Namespace:   "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties",
		Application: "docxkit",
		AppVersion:  appVersion(version),
	})
}

// appVersion formats a semantic version as the XX.YYYY form Word expects
func appVersion(v string) string {
	var major, minor int
	_, _ = fmt.Sscanf(strings.TrimPrefix(v, "v"), "%d.%d", &major, &minor)
	return fmt.Sprintf("%02d.%04d", major, minor)
}
