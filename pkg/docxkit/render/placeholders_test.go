package render

import (
	"testing"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/xml"
	"github.com/google/go-cmp/cmp"
)

func TestFindPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"none", "plain text", nil},
		{"one", "{{주소}}", []string{"주소"}},
		{"composite name", "{{보조금 승인일+3개월}}", []string{"보조금 승인일+3개월"}},
		{"several", "{{year}} 년  {{month}} 월  {{day}} 일", []string{"year", "month", "day"}},
		{"unterminated", "{{open and {{closed}}", []string{"closed"}},
		{"empty", "{{}}", nil},
		{"newline inside", "{{a\nb}}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, ph := range FindPlaceholders(tt.input) {
				names = append(names, ph.Name)
				if tt.input[ph.Start:ph.End] != ph.Token {
					t.Errorf("offsets %d:%d do not address token %q", ph.Start, ph.End, ph.Token)
				}
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFragmentedPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		runs []xml.Run
		want []Fragment
	}{
		{
			name: "contiguous",
			runs: []xml.Run{textRun(nil, "사업장명: "), textRun(nil, "{{사업장명}}")},
			want: nil,
		},
		{
			name: "split in three",
			runs: []xml.Run{textRun(nil, "x {{사"), textRun(nil, "업장"), textRun(nil, "명}} y")},
			want: []Fragment{{Token: "{{사업장명}}", Runs: []int{0, 1, 2}}},
		},
		{
			name: "boundary right after braces",
			runs: []xml.Run{textRun(nil, "{{"), textRun(nil, "day}}")},
			want: []Fragment{{Token: "{{day}}", Runs: []int{0, 1}}},
		},
		{
			name: "adjacent tokens in separate runs",
			runs: []xml.Run{textRun(nil, "{{year}}"), textRun(nil, "{{month}}")},
			want: nil,
		},
		{
			name: "single run",
			runs: []xml.Run{textRun(nil, "{{day}}")},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FragmentedPlaceholders(&xml.Paragraph{Runs: tt.runs})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fragments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeRepairsFragments(t *testing.T) {
	para := &xml.Paragraph{Runs: []xml.Run{textRun(nil, "{{보조금 "), textRun(nil, "승인액}}")}}
	if len(FragmentedPlaceholders(para)) != 1 {
		t.Fatal("expected a fragment before merging")
	}
	MergeConsecutiveRuns(para)
	if got := FragmentedPlaceholders(para); got != nil {
		t.Errorf("fragments after merge: %v", got)
	}
}
