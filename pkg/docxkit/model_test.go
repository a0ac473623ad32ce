package docxkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableBounds(t *testing.T) {
	_, err := NewTable(0, 2)
	assert.Error(t, err)
	_, err = NewTable(2, 0)
	assert.Error(t, err)

	tbl, err := NewTable(11, 2)
	require.NoError(t, err)
	assert.Equal(t, 11, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {11, 0}, {0, 2}} {
		_, err := tbl.Cell(rc[0], rc[1])
		assert.Error(t, err, "cell %v", rc)
	}
	assert.Error(t, tbl.SetRowComment(11, "x"))
	assert.Equal(t, "", tbl.RowComment(42))
}

func TestTableGridWidths(t *testing.T) {
	tbl, err := NewTable(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3000, 3000, 3000}, tbl.gridWidths())
	assert.Equal(t, 9000, tbl.tableWidth())

	tbl.Width = 6000
	assert.Equal(t, []int{2000, 2000, 2000}, tbl.gridWidths())

	tbl.ColumnWidths = []int{1000, 2000, 3000}
	assert.Equal(t, []int{1000, 2000, 3000}, tbl.gridWidths())
	assert.Equal(t, 6000, tbl.tableWidth())

	tbl.Width = 0
	assert.Equal(t, 6000, tbl.tableWidth())
}

func TestCellContent(t *testing.T) {
	var c Cell
	assert.Len(t, c.paragraphs(), 1, "an empty cell still holds one paragraph")

	c.SetText("{{사업장명}}", true)
	require.Len(t, c.Paragraphs, 1)
	assert.Equal(t, []Run{{Text: "{{사업장명}}", Bold: true}}, c.Paragraphs[0].Runs)

	c.AddParagraph(AlignCenter).AddText("second")
	assert.Len(t, c.paragraphs(), 2)
}

func TestParagraphText(t *testing.T) {
	p := &Paragraph{}
	p.AddText("{{year}} 년  ").AddRun(Run{Text: "{{month}}", Bold: true}).AddText(" 월")
	assert.Equal(t, "{{year}} 년  {{month}} 월", p.Text())
	assert.Equal(t, 0, Run{}.halfPoints())
	assert.Equal(t, 36, Run{Size: 18}.halfPoints())
	assert.Equal(t, 21, Run{Size: 10.5}.halfPoints())
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *Document
		wantField string
	}{
		{
			name:  "sample is valid",
			build: func() *Document { return sampleDocument(t) },
		},
		{
			name: "empty page",
			build: func() *Document {
				doc := NewDocument()
				doc.Page.Width = 0
				return doc
			},
			wantField: "page",
		},
		{
			name: "margins wider than page",
			build: func() *Document {
				doc := NewDocument()
				doc.Page.MarginLeft = 6000
				doc.Page.MarginRight = 6000
				return doc
			},
			wantField: "page",
		},
		{
			name: "unknown alignment",
			build: func() *Document {
				doc := NewDocument()
				doc.AddParagraph("justify-all")
				return doc
			},
			wantField: "blocks[0]",
		},
		{
			name: "negative size",
			build: func() *Document {
				doc := NewDocument()
				doc.AddParagraph(AlignDefault).AddRun(Run{Text: "x", Size: -1})
				return doc
			},
			wantField: "blocks[0].runs[0]",
		},
		{
			name: "invalid utf-8",
			build: func() *Document {
				doc := NewDocument()
				doc.AddParagraph(AlignDefault).AddText("bad \xff")
				return doc
			},
			wantField: "blocks[0].runs[0]",
		},
		{
			name: "control character in a cell",
			build: func() *Document {
				doc := NewDocument()
				tbl, _ := doc.AddTable(1, 1)
				cell, _ := tbl.Cell(0, 0)
				cell.SetText("\x0b", false)
				return doc
			},
			wantField: "blocks[0].cell(0,0).paragraphs[0].runs[0]",
		},
		{
			name: "column widths do not match columns",
			build: func() *Document {
				doc := NewDocument()
				tbl, _ := doc.AddTable(1, 2)
				tbl.ColumnWidths = []int{9000}
				return doc
			},
			wantField: "blocks[0]",
		},
		{
			name: "non-positive column width",
			build: func() *Document {
				doc := NewDocument()
				tbl, _ := doc.AddTable(1, 2)
				tbl.ColumnWidths = []int{9000, 0}
				return doc
			},
			wantField: "blocks[0]",
		},
		{
			name: "nil block",
			build: func() *Document {
				doc := NewDocument()
				doc.Blocks = append(doc.Blocks, nil)
				return doc
			},
			wantField: "blocks[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Issues)
			assert.Equal(t, tt.wantField, verr.Issues[0].Field)
		})
	}
}

func TestFirstInvalidXMLChar(t *testing.T) {
	_, bad := firstInvalidXMLChar("착공신고서\t\n{{year}}")
	assert.False(t, bad)

	r, bad := firstInvalidXMLChar("a\x01b")
	assert.True(t, bad)
	assert.Equal(t, rune(1), r)

	_, bad = firstInvalidXMLChar("\uFFFE")
	assert.True(t, bad)
}
