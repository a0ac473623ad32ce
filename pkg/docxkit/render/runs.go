package render

import (
	"reflect"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/xml"
)

// RunPropertiesEquivalent checks if two run properties are equivalent for merging purposes
func RunPropertiesEquivalent(p1, p2 *xml.RunProperties) bool {
	if p1 == nil && p2 == nil {
		return true
	}
	if (p1 == nil) != (p2 == nil) {
		return false
	}
	return reflect.DeepEqual(p1, p2)
}

// MergeConsecutiveRuns merges adjacent text-only runs with equivalent
// properties. Runs carrying breaks or tabs are kept as boundaries.
// It returns the number of runs removed.
func MergeConsecutiveRuns(para *xml.Paragraph) int {
	before := len(para.Runs)
	para.Runs = mergeRunSlice(para.Runs)
	return before - len(para.Runs)
}

// mergeRunSlice merges a slice of runs
func mergeRunSlice(runs []xml.Run) []xml.Run {
	if len(runs) <= 1 {
		return runs
	}

	merged := make([]xml.Run, 0, len(runs))
	var current *xml.Run

	for _, run := range runs {
		if current != nil && current.IsTextOnly() && run.IsTextOnly() &&
			RunPropertiesEquivalent(current.Properties, run.Properties) {
			appendText(current, &run)
			continue
		}
		if current != nil {
			merged = append(merged, *current)
		}
		newRun := cloneRun(run)
		current = &newRun
	}
	if current != nil {
		merged = append(merged, *current)
	}
	return merged
}

// appendText folds the text of src into the single text node of dst.
// Both runs must be text-only.
func appendText(dst, src *xml.Run) {
	if len(dst.Content) > 1 {
		collapseText(dst)
	}
	target := dst.Content[0].(*xml.Text)
	for _, c := range src.Content {
		t := c.(*xml.Text)
		target.Content += t.Content
		// Preserve xml:space="preserve" if either run has it
		if t.Space == "preserve" {
			target.Space = "preserve"
		}
	}
}

// collapseText joins the text nodes of a text-only run into one
func collapseText(r *xml.Run) {
	joined := &xml.Text{}
	for _, c := range r.Content {
		t := c.(*xml.Text)
		joined.Content += t.Content
		if t.Space == "preserve" {
			joined.Space = "preserve"
		}
	}
	r.Content = []xml.RunContent{joined}
}

// cloneRun copies the run's content slice and text nodes so merging never
// mutates the caller's runs.
func cloneRun(r xml.Run) xml.Run {
	out := xml.Run{Properties: r.Properties}
	out.Content = make([]xml.RunContent, len(r.Content))
	for i, c := range r.Content {
		if t, ok := c.(*xml.Text); ok {
			cp := *t
			out.Content[i] = &cp
			continue
		}
		out.Content[i] = c
	}
	return out
}
