package docxkit

import (
	"bytes"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/render"
	"github.com/benjaminschreck/docxkit/pkg/docxkit/xml"
)

// FindPlaceholders returns the names of the {{name}} tokens in text, in
// order of appearance, duplicates included
func FindPlaceholders(text string) []string {
	found := render.FindPlaceholders(text)
	names := make([]string, 0, len(found))
	for _, ph := range found {
		names = append(names, ph.Name)
	}
	return names
}

// UniquePlaceholders drops repeated names, keeping first-seen order
func UniquePlaceholders(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Fragment is a placeholder whose characters are spread over several runs
type Fragment struct {
	// Paragraph is the index in document order, table cells included
	Paragraph int
	Token     string
	Runs      []int
}

// Report describes the placeholders of a body part
type Report struct {
	// Placeholders lists names found whole inside a single run, first-seen order
	Placeholders []string
	// Counts is the number of single-run occurrences per name
	Counts map[string]int
	// RawCounts is the number of contiguous matches per name in the raw part text
	RawCounts map[string]int
	Fragments []Fragment
	// Comments is the number of XML comments in the part
	Comments int
}

// Fragmented reports whether any placeholder straddles runs
func (r *Report) Fragmented() bool {
	return len(r.Fragments) > 0
}

// InspectDocumentXML inspects the content of a word/document.xml part
func InspectDocumentXML(body []byte) (*Report, error) {
	doc, err := xml.ParseDocument(bytes.NewReader(body))
	if err != nil {
		return nil, NewPackagingError(DocumentPart, "failed to parse body", err)
	}

	report := &Report{
		Counts:    make(map[string]int),
		RawCounts: make(map[string]int),
		Comments:  CountComments(body),
	}

	var names []string
	for i, para := range doc.Body.Paragraphs() {
		for r := range para.Runs {
			for _, name := range FindPlaceholders(para.Runs[r].GetText()) {
				names = append(names, name)
				report.Counts[name]++
			}
		}
		for _, f := range render.FragmentedPlaceholders(para) {
			report.Fragments = append(report.Fragments, Fragment{
				Paragraph: i,
				Token:     f.Token,
				Runs:      f.Runs,
			})
		}
	}
	report.Placeholders = UniquePlaceholders(names)

	for _, name := range FindPlaceholders(string(body)) {
		report.RawCounts[name]++
	}

	return report, nil
}

// InspectPackage inspects the body part of a package built in memory
func InspectPackage(pkg *Package) (*Report, error) {
	body, ok := pkg.Part(DocumentPart)
	if !ok {
		return nil, NewPackagingError(DocumentPart, "document body part is missing", nil)
	}
	return InspectDocumentXML(body)
}

// InspectReader inspects the body part of an existing package
func InspectReader(r *Reader) (*Report, error) {
	body, err := r.DocumentXML()
	if err != nil {
		return nil, err
	}
	return InspectDocumentXML(body)
}

// InspectFile opens the package at path and inspects its body part
func InspectFile(path string) (*Report, error) {
	r, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	return InspectReader(r)
}
