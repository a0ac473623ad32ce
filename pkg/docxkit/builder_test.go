package docxkit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("markup")
	require.NoError(t, err)
	assert.Equal(t, StrategyMarkup, s)

	s, err = ParseStrategy("object")
	require.NoError(t, err)
	assert.Equal(t, StrategyObject, s)

	_, err = ParseStrategy("xslt")
	assert.Error(t, err)
}

func TestBuilderMinimalPackage(t *testing.T) {
	for _, strategy := range []Strategy{StrategyMarkup, StrategyObject} {
		t.Run(string(strategy), func(t *testing.T) {
			var buf bytes.Buffer
			err := NewBuilder(WithStrategy(strategy)).Write(sampleDocument(t), &buf)
			require.NoError(t, err)

			names, contents := readZip(t, buf.Bytes())
			assert.Equal(t, []string{ContentTypesPart, RootRelationshipsPart, DocumentPart}, names)

			// referential integrity, checked by reading the archive back
			r, err := ReadPackage(buf.Bytes())
			require.NoError(t, err)
			require.NoError(t, r.CheckIntegrity())

			report, err := InspectDocumentXML(contents[DocumentPart])
			require.NoError(t, err)
			assert.False(t, report.Fragmented())
			for _, name := range []string{"사업장명", "사업자등록번호", "year", "month", "day"} {
				assert.Equal(t, 1, report.Counts[name], name)
				assert.Equal(t, 1, report.RawCounts[name], name)
			}
		})
	}
}

func TestBuilderFullParts(t *testing.T) {
	pkg, err := NewBuilder(WithFullParts(true)).Build(sampleDocument(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		ContentTypesPart,
		RootRelationshipsPart,
		DocumentPart,
		StylesPart,
		SettingsPart,
		CorePropertiesPart,
		AppPropertiesPart,
		DocumentRelsPart,
	}, pkg.PartNames())

	data, err := pkg.Bytes()
	require.NoError(t, err)
	r, err := ReadPackage(data)
	require.NoError(t, err)
	require.NoError(t, r.CheckIntegrity())

	rels, err := r.GetRelationships(DocumentPart)
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, "styles.xml", rels[0].Target)

	ct, err := r.GetContentTypes()
	require.NoError(t, err)
	got, ok := ct.ContentTypeFor(StylesPart)
	assert.True(t, ok)
	assert.Equal(t, ContentTypeStyles, got)

	core, err := r.GetPart(CorePropertiesPart)
	require.NoError(t, err)
	assert.Contains(t, string(core), "<dc:title>착공신고서</dc:title>")
	assert.NotContains(t, string(core), "dcterms:created", "no dates without a fixed time")

	app, err := r.GetPart(AppPropertiesPart)
	require.NoError(t, err)
	assert.Contains(t, string(app), "<AppVersion>00.0001</AppVersion>")
}

func TestBuilderIdempotent(t *testing.T) {
	for _, full := range []bool{false, true} {
		b := NewBuilder(WithFullParts(full))

		var first, second bytes.Buffer
		require.NoError(t, b.Write(sampleDocument(t), &first))
		require.NoError(t, b.Write(sampleDocument(t), &second))
		assert.Equal(t, first.Bytes(), second.Bytes(), "full=%v", full)
	}
}

func TestBuilderWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "☆착공신고서 템플릿_최종.docx")

	metrics := NewMetrics()
	require.NoError(t, NewBuilder(WithMetrics(metrics)).WriteFile(sampleDocument(t), path))

	names, _ := readZipFile(t, path)
	assert.Contains(t, names, DocumentPart)

	// exactly one output file, no temp leftovers
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestBuilderWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.docx")

	err := NewBuilder().WriteFile(sampleDocument(t), path)
	require.Error(t, err)
	assert.True(t, IsIOError(err), "got %T: %v", err, err)
}

func TestBuilderWriteFileParentIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := NewBuilder().WriteFile(sampleDocument(t), filepath.Join(file, "out.docx"))
	assert.True(t, IsIOError(err), "got %T: %v", err, err)
}

func TestBuilderWriteFileReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := NewBuilder().WriteFile(sampleDocument(t), filepath.Join(dir, "out.docx"))
	assert.True(t, IsIOError(err), "got %T: %v", err, err)
}

func TestBuilderValidationLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")

	doc := NewDocument()
	doc.AddParagraph(AlignDefault).AddText("bad \x00 char")

	err := NewBuilder().WriteFile(doc, path)
	require.Error(t, err)
	assert.True(t, IsValidationError(err), "got %T: %v", err, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuilderRejectsNilAndBadConfig(t *testing.T) {
	_, err := NewBuilder().Build(nil)
	assert.True(t, IsValidationError(err))

	_, err = NewBuilder(WithStrategy("xslt")).Build(sampleDocument(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestBuilderAnnotatedThenStripped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "annotated.docx")

	require.NoError(t, NewBuilder(WithAnnotations(true)).WriteFile(sampleDocument(t), path))

	_, contents := readZipFile(t, path)
	assert.Equal(t, 5, CountComments(contents[DocumentPart]))

	res, err := NewStripper().StripFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Before)
	assert.Equal(t, 0, res.After)
	assert.True(t, strings.HasSuffix(res.Output, "annotated_nocomments.docx"))
}
