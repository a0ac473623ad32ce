package docxkit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Alignment is a paragraph justification. Runs inherit it from their paragraph.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignBoth    Alignment = "both"
)

// Block is a body-level element: *Paragraph or *Table
type Block interface {
	isBlock()
}

// Document is the in-memory description of a body part
type Document struct {
	Blocks     []Block
	Page       *PageSetup
	Properties Properties
}

// Properties feed docProps/core.xml when the full part set is written
type Properties struct {
	Title   string
	Subject string
	Creator string
}

// NewDocument returns an empty document on an A4 page
func NewDocument() *Document {
	return &Document{Page: A4()}
}

// AddParagraph appends a paragraph and returns it for further runs
func (d *Document) AddParagraph(align Alignment) *Paragraph {
	p := &Paragraph{Align: align}
	d.Blocks = append(d.Blocks, p)
	return p
}

// AddSpacer appends an empty paragraph
func (d *Document) AddSpacer() {
	d.Blocks = append(d.Blocks, &Paragraph{})
}

// AddTable appends a rows x cols table. The grid cannot change afterwards.
func (d *Document) AddTable(rows, cols int) (*Table, error) {
	t, err := NewTable(rows, cols)
	if err != nil {
		return nil, err
	}
	d.Blocks = append(d.Blocks, t)
	return t, nil
}

// Paragraph is an ordered sequence of runs
type Paragraph struct {
	Align Alignment
	Runs  []Run
	// Comment is written as an XML comment before the paragraph when
	// annotations are enabled
	Comment string
}

func (*Paragraph) isBlock() {}

// AddRun appends a run and returns the paragraph for chaining
func (p *Paragraph) AddRun(r Run) *Paragraph {
	p.Runs = append(p.Runs, r)
	return p
}

// AddText appends an unformatted run
func (p *Paragraph) AddText(text string) *Paragraph {
	return p.AddRun(Run{Text: text})
}

// Text returns the concatenated run text
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Run is a piece of text with one formatting. A "\n" in Text becomes a line
// break inside the same run.
type Run struct {
	Text string
	Bold bool
	// Size in points; zero keeps the style default
	Size float64
}

// halfPoints converts the point size to the w:sz unit
func (r Run) halfPoints() int {
	return int(r.Size*2 + 0.5)
}

// Border describes one edge
type Border struct {
	Style string
	// Size in eighths of a point
	Size  int
	Space int
	Color string
}

// SingleBorder is the thin black line used by the form tables
func SingleBorder() Border {
	return Border{Style: "single", Size: 4, Space: 0, Color: "000000"}
}

// CellBorders is an explicit four-edge border set on one cell
type CellBorders struct {
	Top    Border
	Left   Border
	Bottom Border
	Right  Border
}

// AllEdges returns a border set with b on every edge
func AllEdges(b Border) *CellBorders {
	return &CellBorders{Top: b, Left: b, Bottom: b, Right: b}
}

// Table is a fixed rows x cols grid
type Table struct {
	// Width in twips; zero uses the sum of the column widths
	Width int
	// ColumnWidths in twips; empty splits DefaultTableWidth evenly
	ColumnWidths []int
	// Borders, when set, are written as table-level borders in addition to
	// any per-cell borders
	Borders *Border
	Comment string

	rows        [][]*Cell
	rowComments []string
}

func (*Table) isBlock() {}

// DefaultTableWidth is the text width of an A4 page with 0.8in margins, rounded down
const DefaultTableWidth = 9000

// NewTable creates a rows x cols table where every cell is empty
func NewTable(rows, cols int) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("table must have at least one row and column, got %dx%d", rows, cols)
	}
	t := &Table{
		rows:        make([][]*Cell, rows),
		rowComments: make([]string, rows),
	}
	for r := range t.rows {
		t.rows[r] = make([]*Cell, cols)
		for c := range t.rows[r] {
			t.rows[r][c] = &Cell{}
		}
	}
	return t, nil
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return len(t.rows)
}

// Cols returns the number of columns
func (t *Table) Cols() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// Cell returns the cell at row r, column c
func (t *Table) Cell(r, c int) (*Cell, error) {
	if r < 0 || r >= t.Rows() || c < 0 || c >= t.Cols() {
		return nil, fmt.Errorf("cell (%d,%d) out of range for %dx%d table", r, c, t.Rows(), t.Cols())
	}
	return t.rows[r][c], nil
}

// SetCellBorders decorates every cell with the same explicit four-edge border
func (t *Table) SetCellBorders(b Border) {
	for _, row := range t.rows {
		for _, cell := range row {
			cell.Borders = AllEdges(b)
		}
	}
}

// SetRowComment annotates row r
func (t *Table) SetRowComment(r int, comment string) error {
	if r < 0 || r >= t.Rows() {
		return fmt.Errorf("row %d out of range for %d rows", r, t.Rows())
	}
	t.rowComments[r] = comment
	return nil
}

// RowComment returns the annotation of row r
func (t *Table) RowComment(r int) string {
	if r < 0 || r >= len(t.rowComments) {
		return ""
	}
	return t.rowComments[r]
}

// gridWidths returns one width per column
func (t *Table) gridWidths() []int {
	cols := t.Cols()
	if len(t.ColumnWidths) == cols {
		return t.ColumnWidths
	}
	total := t.Width
	if total <= 0 {
		total = DefaultTableWidth
	}
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = total / cols
	}
	return widths
}

// tableWidth returns the declared width or the grid sum
func (t *Table) tableWidth() int {
	if t.Width > 0 {
		return t.Width
	}
	sum := 0
	for _, w := range t.gridWidths() {
		sum += w
	}
	return sum
}

// Cell holds one or more paragraphs
type Cell struct {
	// Width in twips; zero uses the column width
	Width      int
	Paragraphs []*Paragraph
	Borders    *CellBorders
}

// AddParagraph appends a paragraph to the cell
func (c *Cell) AddParagraph(align Alignment) *Paragraph {
	p := &Paragraph{Align: align}
	c.Paragraphs = append(c.Paragraphs, p)
	return p
}

// SetText replaces the cell content with a single one-run paragraph
func (c *Cell) SetText(text string, bold bool) {
	c.Paragraphs = []*Paragraph{{Runs: []Run{{Text: text, Bold: bold}}}}
}

// paragraphs returns the cell paragraphs, never empty
func (c *Cell) paragraphs() []*Paragraph {
	if len(c.Paragraphs) == 0 {
		return []*Paragraph{{}}
	}
	return c.Paragraphs
}

// PageSetup is the page size and margins in twips
type PageSetup struct {
	Width  int
	Height int

	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	Header       int
	Footer       int
	Gutter       int
}

// A4 is a portrait A4 page with 0.8 inch margins
func A4() *PageSetup {
	return &PageSetup{
		Width:        11906,
		Height:       16838,
		MarginTop:    1152,
		MarginRight:  1152,
		MarginBottom: 1152,
		MarginLeft:   1152,
		Header:       720,
		Footer:       720,
		Gutter:       0,
	}
}

// Validate reports structural problems in the model
func (d *Document) Validate() error {
	verr := &ValidationError{}

	if d.Page != nil {
		if d.Page.Width <= 0 || d.Page.Height <= 0 {
			verr.Add("page", "size must be positive, got %dx%d", d.Page.Width, d.Page.Height)
		}
		if d.Page.MarginLeft+d.Page.MarginRight >= d.Page.Width {
			verr.Add("page", "horizontal margins leave no text area")
		}
	}

	for i, block := range d.Blocks {
		field := fmt.Sprintf("blocks[%d]", i)
		switch b := block.(type) {
		case *Paragraph:
			validateParagraph(verr, field, b)
		case *Table:
			validateTable(verr, field, b)
		case nil:
			verr.Add(field, "nil block")
		default:
			verr.Add(field, "unsupported block type %T", block)
		}
	}

	return verr.Err()
}

func validateParagraph(verr *ValidationError, field string, p *Paragraph) {
	if p == nil {
		verr.Add(field, "nil paragraph")
		return
	}
	switch p.Align {
	case AlignDefault, AlignLeft, AlignCenter, AlignRight, AlignBoth:
	default:
		verr.Add(field, "unknown alignment %q", p.Align)
	}
	for j, r := range p.Runs {
		runField := fmt.Sprintf("%s.runs[%d]", field, j)
		if r.Size < 0 {
			verr.Add(runField, "negative size %v", r.Size)
		}
		if !utf8.ValidString(r.Text) {
			verr.Add(runField, "text is not valid UTF-8")
		} else if bad, ok := firstInvalidXMLChar(r.Text); ok {
			verr.Add(runField, "text contains character %U not allowed in XML", bad)
		}
	}
}

func validateTable(verr *ValidationError, field string, t *Table) {
	if t == nil || t.Rows() == 0 {
		verr.Add(field, "table has no rows")
		return
	}
	if n := len(t.ColumnWidths); n != 0 && n != t.Cols() {
		verr.Add(field, "%d column widths for %d columns", n, t.Cols())
	}
	for _, w := range t.ColumnWidths {
		if w <= 0 {
			verr.Add(field, "column width must be positive, got %d", w)
			break
		}
	}
	for r, row := range t.rows {
		for c, cell := range row {
			for k, p := range cell.Paragraphs {
				validateParagraph(verr, fmt.Sprintf("%s.cell(%d,%d).paragraphs[%d]", field, r, c, k), p)
			}
		}
	}
}

// firstInvalidXMLChar finds a rune outside the XML 1.0 Char production
func firstInvalidXMLChar(s string) (rune, bool) {
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return r, true
		}
	}
	return 0, false
}
