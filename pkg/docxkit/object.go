package docxkit

import (
	"strconv"
	"strings"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/render"
	"github.com/benjaminschreck/docxkit/pkg/docxkit/xml"
)

// renderObject lowers doc into the xml object model, merges adjacent runs
// and marshals the result. Annotations are not representable here.
func renderObject(doc *Document, l lowering) ([]byte, error) {
	body := &xml.Body{}

	for _, block := range doc.Blocks {
		switch b := block.(type) {
		case *Paragraph:
			body.Elements = append(body.Elements, l.objectParagraph(b))
		case *Table:
			body.Elements = append(body.Elements, l.objectTable(b))
		}
	}

	if doc.Page != nil {
		body.SectionProperties = objectSection(doc.Page)
	}

	for _, p := range body.Paragraphs() {
		render.MergeConsecutiveRuns(p)
	}

	return xml.Marshal(&xml.Document{Body: body})
}

func (l lowering) objectParagraph(p *Paragraph) *xml.Paragraph {
	out := &xml.Paragraph{}
	if p.Align != AlignDefault {
		out.Properties = &xml.ParagraphProperties{
			Alignment: &xml.Alignment{Val: string(p.Align)},
		}
	}
	for _, r := range p.Runs {
		out.Runs = append(out.Runs, l.objectRun(r))
	}
	return out
}

func (l lowering) objectRun(r Run) xml.Run {
	out := xml.Run{}
	if r.Bold || r.Size > 0 {
		props := &xml.RunProperties{}
		if r.Bold {
			props.Bold = &xml.OnOff{}
		}
		if r.Size > 0 {
			props.Size = &xml.HalfPoint{Val: r.halfPoints()}
			props.SizeCs = &xml.HalfPoint{Val: r.halfPoints()}
		}
		out.Properties = props
	}

	lines := strings.Split(l.text(r.Text), "\n")
	for i, line := range lines {
		if i > 0 {
			out.Content = append(out.Content, &xml.Break{})
		}
		if line == "" && len(lines) > 1 {
			continue
		}
		t := &xml.Text{Content: line}
		if needsPreserve(line) {
			t.Space = "preserve"
		}
		out.Content = append(out.Content, t)
	}
	return out
}

func objectBorder(b Border) *xml.BorderProperties {
	return &xml.BorderProperties{
		Val:   b.Style,
		Sz:    strconv.Itoa(b.Size),
		Space: strconv.Itoa(b.Space),
		Color: b.Color,
	}
}

func (l lowering) objectTable(t *Table) *xml.Table {
	grid := t.gridWidths()

	out := &xml.Table{
		Properties: &xml.TableProperties{
			Width:  &xml.Width{Val: t.tableWidth(), Type: "dxa"},
			Layout: &xml.TableLayout{Type: "fixed"},
		},
		Grid: &xml.TableGrid{},
	}
	if t.Borders != nil {
		edge := objectBorder(*t.Borders)
		out.Properties.Borders = &xml.TableBorders{
			Top: edge, Left: edge, Bottom: edge, Right: edge, InsideH: edge, InsideV: edge,
		}
	}
	for _, w := range grid {
		out.Grid.Columns = append(out.Grid.Columns, xml.GridColumn{Width: w})
	}

	for _, row := range t.rows {
		var tr xml.TableRow
		for c, cell := range row {
			width := cell.Width
			if width <= 0 {
				width = grid[c]
			}
			tc := xml.TableCell{
				Properties: &xml.TableCellProperties{
					Width: &xml.Width{Val: width, Type: "dxa"},
				},
			}
			if b := cell.Borders; b != nil {
				tc.Properties.Borders = &xml.TableCellBorders{
					Top:    objectBorder(b.Top),
					Left:   objectBorder(b.Left),
					Bottom: objectBorder(b.Bottom),
					Right:  objectBorder(b.Right),
				}
			}
			for _, p := range cell.paragraphs() {
				tc.Paragraphs = append(tc.Paragraphs, *l.objectParagraph(p))
			}
			tr.Cells = append(tr.Cells, tc)
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

func objectSection(p *PageSetup) *xml.SectionProperties {
	return &xml.SectionProperties{
		PageSize: &xml.PageSize{Width: p.Width, Height: p.Height},
		PageMargins: &xml.PageMargins{
			Top:    p.MarginTop,
			Right:  p.MarginRight,
			Bottom: p.MarginBottom,
			Left:   p.MarginLeft,
			Header: p.Header,
			Footer: p.Footer,
			Gutter: p.Gutter,
		},
	}
}
