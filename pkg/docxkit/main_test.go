package docxkit

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// Keep test output quiet; individual tests install their own loggers
	SetLogger(NewLogger(io.Discard, LogOff))
	goleak.VerifyTestMain(m)
}

// zipMember is one entry of a hand-made archive
type zipMember struct {
	name  string
	body  string
	store bool
}

// createZip builds an archive in memory from members, in order
func createZip(t *testing.T, members ...zipMember) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, m := range members {
		method := zip.Deflate
		if m.store {
			method = zip.Store
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: m.name, Method: method})
		require.NoError(t, err)
		_, err = fw.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// readZip returns member names in order and their decompressed content
func readZip(t *testing.T, data []byte) ([]string, map[string][]byte) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	contents := make(map[string][]byte)
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = b
	}
	return names, contents
}

func readZipFile(t *testing.T, path string) ([]string, map[string][]byte) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return readZip(t, data)
}

// sampleDocument is a reduced construction start report
func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument()
	doc.Properties.Title = "착공신고서"

	title := doc.AddParagraph(AlignCenter)
	title.Comment = "Title"
	title.AddRun(Run{Text: "착공신고서", Bold: true, Size: 18})

	doc.AddSpacer()

	tbl, err := doc.AddTable(3, 2)
	require.NoError(t, err)
	tbl.Comment = "Main table"
	tbl.ColumnWidths = []int{2000, 7000}
	tbl.SetCellBorders(SingleBorder())

	rows := [][2]string{
		{"사업장명", "{{사업장명}}"},
		{"사업자등록번호", "{{사업자등록번호}}"},
		{"보조금 승인일", "{{보조금 승인일}} ~ {{보조금 승인일+3개월}}"},
	}
	for r, row := range rows {
		label, err := tbl.Cell(r, 0)
		require.NoError(t, err)
		label.SetText(row[0], true)
		value, err := tbl.Cell(r, 1)
		require.NoError(t, err)
		value.SetText(row[1], false)
		require.NoError(t, tbl.SetRowComment(r, "Row "+string(rune('1'+r))+": "+row[0]))
	}

	doc.AddParagraph(AlignCenter).AddText("{{year}} 년  {{month}} 월  {{day}} 일")
	doc.AddParagraph(AlignRight).AddRun(Run{Text: "{{지자체장}}  귀하", Bold: true})
	return doc
}
