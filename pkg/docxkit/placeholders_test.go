package docxkit

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndUniquePlaceholders(t *testing.T) {
	names := FindPlaceholders("{{사업장명}} / {{주소}} / {{사업장명}}")
	assert.Equal(t, []string{"사업장명", "주소", "사업장명"}, names)
	assert.Equal(t, []string{"사업장명", "주소"}, UniquePlaceholders(names))
	assert.Empty(t, FindPlaceholders("no tokens here"))
}

func TestInspectDocumentXMLFragments(t *testing.T) {
	const body = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<!-- split by an editor -->
<w:p><w:r><w:t>{{입금</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>액}}</w:t></w:r></w:p>
<w:p><w:r><w:t>{{자부담}}</w:t></w:r></w:p>
</w:body></w:document>`

	report, err := InspectDocumentXML([]byte(body))
	require.NoError(t, err)

	want := []Fragment{{Paragraph: 0, Token: "{{입금액}}", Runs: []int{0, 1}}}
	if diff := cmp.Diff(want, report.Fragments); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, report.Fragmented())
	assert.Equal(t, []string{"자부담"}, report.Placeholders)
	assert.Equal(t, 0, report.RawCounts["입금액"], "markup between the halves hides the token from a text scan")
	assert.Equal(t, 1, report.Comments)
}

func TestInspectDocumentXMLRejectsGarbage(t *testing.T) {
	_, err := InspectDocumentXML([]byte("<w:document><w:body>"))
	assert.True(t, IsPackagingError(err), "got %T: %v", err, err)
}

func TestInspectBuiltPackage(t *testing.T) {
	pkg, err := NewBuilder().Build(sampleDocument(t))
	require.NoError(t, err)

	report, err := InspectPackage(pkg)
	require.NoError(t, err)
	assert.False(t, report.Fragmented())
	assert.Equal(t, []string{
		"사업장명",
		"사업자등록번호",
		"보조금 승인일",
		"보조금 승인일+3개월",
		"year",
		"month",
		"day",
		"지자체장",
	}, report.Placeholders)

	path := filepath.Join(t.TempDir(), "form.docx")
	require.NoError(t, NewBuilder().WriteFile(sampleDocument(t), path))
	fromFile, err := InspectFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(report, fromFile); diff != "" {
		t.Errorf("file and in-memory reports differ (-mem +file):\n%s", diff)
	}

	_, err = InspectPackage(NewPackage())
	assert.True(t, IsPackagingError(err))
}
