// Package render provides run-level helpers over the xml package types.
//
// The helpers here are pure: they hold no state and never call back into
// the docxkit package, which imports render and not the other way round.
//
//   - runs.go: merging adjacent runs with equal formatting
//   - placeholders.go: locating {{name}} tokens and detecting tokens whose
//     characters are spread over more than one run
//
// A placeholder split across runs is invisible to simple find-and-replace
// filling, so builders merge runs after lowering and inspectors report any
// fragment that survives:
//
//	render.MergeConsecutiveRuns(para)
//	for _, f := range render.FragmentedPlaceholders(para) {
//	    fmt.Println(f.Token, f.Runs)
//	}
package render
