package render

import (
	"regexp"
	"strings"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/xml"
)

// placeholderPattern matches {{name}}. Names may hold spaces, Hangul and
// operators such as "+" but never braces or newlines.
var placeholderPattern = regexp.MustCompile(`\{\{([^{}\n]+)\}\}`)

// Placeholder is a single token occurrence inside a text
type Placeholder struct {
	// Token is the full token including the braces
	Token string
	// Name is the trimmed text between the braces
	Name string
	// Start and End are byte offsets into the searched text
	Start int
	End   int
}

// FindPlaceholders returns every {{name}} token in s, in order
func FindPlaceholders(s string) []Placeholder {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		out = append(out, Placeholder{
			Token: s[m[0]:m[1]],
			Name:  strings.TrimSpace(s[m[2]:m[3]]),
			Start: m[0],
			End:   m[1],
		})
	}
	return out
}

// Fragment describes a placeholder whose characters span several runs
type Fragment struct {
	Token string
	// Runs holds the indexes of the runs the token touches
	Runs []int
}

// FragmentedPlaceholders reports the tokens of a paragraph that are not
// contained in a single run. A run boundary inside a token is what breaks
// naive fill-in tools.
func FragmentedPlaceholders(para *xml.Paragraph) []Fragment {
	if len(para.Runs) < 2 {
		return nil
	}

	// offsets[i] is the byte offset where run i starts in the joined text
	offsets := make([]int, len(para.Runs)+1)
	var sb strings.Builder
	for i := range para.Runs {
		offsets[i] = sb.Len()
		sb.WriteString(para.Runs[i].GetText())
	}
	offsets[len(para.Runs)] = sb.Len()

	var out []Fragment
	for _, ph := range FindPlaceholders(sb.String()) {
		var runs []int
		for i := range para.Runs {
			if offsets[i] < ph.End && offsets[i+1] > ph.Start {
				runs = append(runs, i)
			}
		}
		if len(runs) > 1 {
			out = append(out, Fragment{Token: ph.Token, Runs: runs})
		}
	}
	return out
}
