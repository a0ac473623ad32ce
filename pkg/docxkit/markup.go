package docxkit

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/xml"
)

// lowering carries the options shared by both lowering strategies
type lowering struct {
	annotate  bool
	normalize bool
}

// text prepares run text for serialization
func (l lowering) text(s string) string {
	if l.normalize && !norm.NFC.IsNormalString(s) {
		return norm.NFC.String(s)
	}
	return s
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\r", "&#xD;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	`"`, "&quot;",
)

// needsPreserve reports whether a reader would trim or collapse whitespace
// in s unless xml:space="preserve" is set
func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	if isSpace(s[0]) || isSpace(s[len(s)-1]) {
		return true
	}
	return strings.Contains(s, "  ") || strings.ContainsRune(s, '\t')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// sanitizeComment makes s legal inside <!-- -->: no "--" and no trailing "-"
func sanitizeComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	if strings.HasSuffix(s, "-") {
		s += " "
	}
	return s
}

// markupWriter lowers the model straight to WordprocessingML text
type markupWriter struct {
	lowering
	sb strings.Builder
}

// renderMarkup returns the complete word/document.xml for doc
func renderMarkup(doc *Document, l lowering) []byte {
	w := &markupWriter{lowering: l}
	w.sb.WriteString(xml.Header)
	w.sb.WriteString(`<w:document xmlns:w="`)
	w.sb.WriteString(xml.NamespaceMain)
	w.sb.WriteString(`" xmlns:r="`)
	w.sb.WriteString(xml.NamespaceRelationships)
	w.sb.WriteString(`">`)
	w.sb.WriteString("\n<w:body>\n")

	for _, block := range doc.Blocks {
		switch b := block.(type) {
		case *Paragraph:
			w.comment(b.Comment)
			w.paragraph(b)
			w.sb.WriteByte('\n')
		case *Table:
			w.comment(b.Comment)
			w.table(b)
			w.sb.WriteByte('\n')
		}
	}

	if doc.Page != nil {
		w.sectPr(doc.Page)
		w.sb.WriteByte('\n')
	}

	w.sb.WriteString("</w:body>\n</w:document>")
	return []byte(w.sb.String())
}

func (w *markupWriter) comment(text string) {
	if !w.annotate || text == "" {
		return
	}
	w.sb.WriteString("<!-- ")
	w.sb.WriteString(sanitizeComment(text))
	w.sb.WriteString(" -->\n")
}

// empty writes <w:name w:attr="val" .../>
func (w *markupWriter) empty(name string, attrs ...string) {
	w.sb.WriteString("<w:")
	w.sb.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		w.sb.WriteString(" w:")
		w.sb.WriteString(attrs[i])
		w.sb.WriteString(`="`)
		w.sb.WriteString(attrEscaper.Replace(attrs[i+1]))
		w.sb.WriteByte('"')
	}
	w.sb.WriteString("/>")
}

func (w *markupWriter) paragraph(p *Paragraph) {
	w.sb.WriteString("<w:p>")
	if p.Align != AlignDefault {
		w.sb.WriteString("<w:pPr>")
		w.empty("jc", "val", string(p.Align))
		w.sb.WriteString("</w:pPr>")
	}
	for _, r := range p.Runs {
		w.run(r)
	}
	w.sb.WriteString("</w:p>")
}

// run writes exactly one <w:r>. Line breaks stay inside it.
func (w *markupWriter) run(r Run) {
	w.sb.WriteString("<w:r>")
	if r.Bold || r.Size > 0 {
		w.sb.WriteString("<w:rPr>")
		if r.Bold {
			w.empty("b")
		}
		if r.Size > 0 {
			hp := strconv.Itoa(r.halfPoints())
			w.empty("sz", "val", hp)
			w.empty("szCs", "val", hp)
		}
		w.sb.WriteString("</w:rPr>")
	}

	lines := strings.Split(w.text(r.Text), "\n")
	for i, line := range lines {
		if i > 0 {
			w.sb.WriteString("<w:br/>")
		}
		if line == "" && len(lines) > 1 {
			continue
		}
		w.textElement(line)
	}
	w.sb.WriteString("</w:r>")
}

func (w *markupWriter) textElement(s string) {
	if needsPreserve(s) {
		w.sb.WriteString(`<w:t xml:space="preserve">`)
	} else {
		w.sb.WriteString("<w:t>")
	}
	w.sb.WriteString(textEscaper.Replace(s))
	w.sb.WriteString("</w:t>")
}

func (w *markupWriter) border(edge string, b Border) {
	w.empty(edge,
		"val", b.Style,
		"sz", strconv.Itoa(b.Size),
		"space", strconv.Itoa(b.Space),
		"color", b.Color,
	)
}

func (w *markupWriter) table(t *Table) {
	grid := t.gridWidths()

	w.sb.WriteString("<w:tbl>\n<w:tblPr>")
	w.empty("tblW", "w", strconv.Itoa(t.tableWidth()), "type", "dxa")
	if t.Borders != nil {
		w.sb.WriteString("<w:tblBorders>")
		for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			w.border(edge, *t.Borders)
		}
		w.sb.WriteString("</w:tblBorders>")
	}
	w.empty("tblLayout", "type", "fixed")
	w.sb.WriteString("</w:tblPr>\n<w:tblGrid>")
	for _, width := range grid {
		w.empty("gridCol", "w", strconv.Itoa(width))
	}
	w.sb.WriteString("</w:tblGrid>\n")

	for r, row := range t.rows {
		w.comment(t.RowComment(r))
		w.sb.WriteString("<w:tr>")
		for c, cell := range row {
			w.cell(cell, grid[c])
		}
		w.sb.WriteString("</w:tr>\n")
	}
	w.sb.WriteString("</w:tbl>")
}

func (w *markupWriter) cell(c *Cell, colWidth int) {
	width := c.Width
	if width <= 0 {
		width = colWidth
	}

	w.sb.WriteString("<w:tc><w:tcPr>")
	w.empty("tcW", "w", strconv.Itoa(width), "type", "dxa")
	if b := c.Borders; b != nil {
		w.sb.WriteString("<w:tcBorders>")
		w.border("top", b.Top)
		w.border("left", b.Left)
		w.border("bottom", b.Bottom)
		w.border("right", b.Right)
		w.sb.WriteString("</w:tcBorders>")
	}
	w.sb.WriteString("</w:tcPr>")
	for _, p := range c.paragraphs() {
		w.paragraph(p)
	}
	w.sb.WriteString("</w:tc>")
}

func (w *markupWriter) sectPr(p *PageSetup) {
	w.sb.WriteString("<w:sectPr>")
	w.empty("pgSz", "w", strconv.Itoa(p.Width), "h", strconv.Itoa(p.Height))
	w.empty("pgMar",
		"top", strconv.Itoa(p.MarginTop),
		"right", strconv.Itoa(p.MarginRight),
		"bottom", strconv.Itoa(p.MarginBottom),
		"left", strconv.Itoa(p.MarginLeft),
		"header", strconv.Itoa(p.Header),
		"footer", strconv.Itoa(p.Footer),
		"gutter", strconv.Itoa(p.Gutter),
	)
	w.sb.WriteString("</w:sectPr>")
}
