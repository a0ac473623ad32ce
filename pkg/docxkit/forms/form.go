// Package forms describes fill-in DOCX forms as static YAML and lowers them
// to a docxkit.Document.
//
// A form is a heading, a two-column label/value table, a run of centered
// closing lines (declaration, date, signature, recipient) and an optional
// attachments box. Lines may hold {{name}} placeholder tokens, which are
// passed through untouched for a later fill-in step, and ${key} references,
// which are resolved against the form's organization map when the form is
// lowered.
package forms

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/docxkit/pkg/docxkit"
)

// DefaultName is the builtin construction start report (착공신고서)
const DefaultName = "construction-start"

//go:embed builtin/*.yaml
var builtin embed.FS

// referencePattern matches ${key}
var referencePattern = regexp.MustCompile(`\$\{([^{}\s]+)\}`)

// Form is the static description of one document
type Form struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"`
	// Organization holds the constants ${key} references resolve to
	Organization map[string]string `yaml:"organization,omitempty"`
	Page         *Page             `yaml:"page,omitempty"`

	Heading     Section     `yaml:"heading"`
	Table       Table       `yaml:"table"`
	Declaration Section     `yaml:"declaration,omitempty"`
	Date        Section     `yaml:"date,omitempty"`
	Signature   Section     `yaml:"signature,omitempty"`
	Recipient   Section     `yaml:"recipient,omitempty"`
	Attachments Attachments `yaml:"attachments,omitempty"`
}

// Page overrides the A4 margins, in twips. Zero keeps the default.
type Page struct {
	Top    int `yaml:"top,omitempty"`
	Right  int `yaml:"right,omitempty"`
	Bottom int `yaml:"bottom,omitempty"`
	Left   int `yaml:"left,omitempty"`
}

// Section is a group of paragraphs sharing one formatting. Each line is
// one paragraph with a single run.
type Section struct {
	Comment string `yaml:"comment,omitempty"`
	// Align is left, center, right or both; empty centers the lines
	Align string   `yaml:"align,omitempty"`
	Size  float64  `yaml:"size,omitempty"`
	Bold  bool     `yaml:"bold,omitempty"`
	Lines []string `yaml:"lines,omitempty"`
}

// Table is the label/value grid
type Table struct {
	Comment      string  `yaml:"comment,omitempty"`
	ColumnWidths []int   `yaml:"column_widths,omitempty"`
	Border       *Border `yaml:"border,omitempty"`
	Fields       []Field `yaml:"fields"`
}

// Field is one table row: a bold centered label and one value paragraph
// per line
type Field struct {
	Label   string   `yaml:"label"`
	Comment string   `yaml:"comment,omitempty"`
	Lines   []string `yaml:"lines"`
}

// Border is the edge used on every cell of the form's tables
type Border struct {
	Style string `yaml:"style"`
	Size  int    `yaml:"size"`
	Space int    `yaml:"space"`
	Color string `yaml:"color"`
}

// Attachments is the boxed list of documents to enclose
type Attachments struct {
	Comment string   `yaml:"comment,omitempty"`
	Heading string   `yaml:"heading,omitempty"`
	Items   []string `yaml:"items,omitempty"`
}

func (a Attachments) empty() bool {
	return a.Heading == "" && len(a.Items) == 0
}

// Parse decodes a form. Unknown keys are rejected.
func Parse(data []byte) (*Form, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Form
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty form definition")
		}
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	var extra interface{}
	if err := dec.Decode(&extra); err == nil {
		return nil, errors.New("multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed after first YAML document: %w", err)
	}

	return &f, nil
}

// Load reads and validates the form at path
func Load(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &docxkit.NotFoundError{Path: path}
		}
		return nil, docxkit.NewIOError("read", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	docxkit.WithField("form", f.Name).Debug("loaded form from %s", path)
	return f, nil
}

// Builtin returns a copy of the embedded form called name
func Builtin(name string) (*Form, error) {
	data, err := builtin.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown builtin form %q (have %s)", name, strings.Join(Names(), ", "))
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin form %s: %w", name, err)
	}
	return f, nil
}

// Default returns the construction start report form
func Default() *Form {
	f, err := Builtin(DefaultName)
	if err != nil {
		panic(err)
	}
	return f
}

// Names lists the builtin forms, sorted
func Names() []string {
	entries, err := fs.ReadDir(builtin, "builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Validate reports every problem in the form at once
func (f *Form) Validate() error {
	verr := &docxkit.ValidationError{}

	if f.Name == "" {
		verr.Add("name", "must not be empty")
	}
	if len(f.Heading.Lines) == 0 {
		verr.Add("heading.lines", "at least one heading line is required")
	}
	if len(f.Table.Fields) == 0 {
		verr.Add("table.fields", "at least one field is required")
	}
	if n := len(f.Table.ColumnWidths); n != 0 && n != 2 {
		verr.Add("table.column_widths", "want 2 widths, got %d", n)
	}
	for i, w := range f.Table.ColumnWidths {
		if w <= 0 {
			verr.Add(fmt.Sprintf("table.column_widths[%d]", i), "must be positive, got %d", w)
		}
	}
	if b := f.Table.Border; b != nil && (b.Style == "" || b.Size < 0) {
		verr.Add("table.border", "style is required and size must not be negative")
	}
	if p := f.Page; p != nil && (p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0) {
		verr.Add("page", "margins must not be negative")
	}

	for _, s := range f.sections() {
		if _, ok := alignment(s.section.Align); !ok {
			verr.Add(s.field+".align", "unknown alignment %q", s.section.Align)
		}
		if s.section.Size < 0 {
			verr.Add(s.field+".size", "must not be negative")
		}
	}

	for _, l := range f.lines() {
		for _, m := range referencePattern.FindAllStringSubmatch(l.text, -1) {
			if _, ok := f.Organization[m[1]]; !ok {
				verr.Add(l.field, "unknown organization key %q", m[1])
			}
		}
	}

	return verr.Err()
}

// Placeholders returns the unique {{name}} tokens of the form in document
// order, after ${key} references are resolved
func (f *Form) Placeholders() []string {
	var names []string
	for _, l := range f.lines() {
		names = append(names, docxkit.FindPlaceholders(f.resolve(l.text))...)
	}
	return docxkit.UniquePlaceholders(names)
}

// Document validates the form and lowers it to the document model
func (f *Form) Document() (*docxkit.Document, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	doc := docxkit.NewDocument()
	doc.Properties.Title = f.Title
	if f.Page != nil {
		setMargin(&doc.Page.MarginTop, f.Page.Top)
		setMargin(&doc.Page.MarginRight, f.Page.Right)
		setMargin(&doc.Page.MarginBottom, f.Page.Bottom)
		setMargin(&doc.Page.MarginLeft, f.Page.Left)
	}

	f.addSection(doc, f.Heading)
	doc.AddSpacer()

	width, err := f.addFields(doc)
	if err != nil {
		return nil, err
	}

	for _, s := range []Section{f.Declaration, f.Date, f.Signature, f.Recipient} {
		if len(s.Lines) == 0 {
			continue
		}
		doc.AddSpacer()
		f.addSection(doc, s)
	}

	if !f.Attachments.empty() {
		doc.AddSpacer()
		if err := f.addAttachments(doc, width); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func (f *Form) addSection(doc *docxkit.Document, s Section) {
	align, _ := alignment(s.Align)
	for i, line := range s.Lines {
		p := doc.AddParagraph(align)
		if i == 0 {
			p.Comment = s.Comment
		}
		p.AddRun(docxkit.Run{Text: f.resolve(line), Bold: s.Bold, Size: s.Size})
	}
}

// addFields writes the main table and returns its width
func (f *Form) addFields(doc *docxkit.Document) (int, error) {
	tbl, err := doc.AddTable(len(f.Table.Fields), 2)
	if err != nil {
		return 0, err
	}
	tbl.Comment = f.Table.Comment
	tbl.ColumnWidths = f.Table.ColumnWidths
	f.applyBorder(tbl)

	for r, field := range f.Table.Fields {
		label, err := tbl.Cell(r, 0)
		if err != nil {
			return 0, err
		}
		label.AddParagraph(docxkit.AlignCenter).AddRun(docxkit.Run{Text: f.resolve(field.Label), Bold: true})

		value, err := tbl.Cell(r, 1)
		if err != nil {
			return 0, err
		}
		for _, line := range field.Lines {
			value.AddParagraph(docxkit.AlignDefault).AddText(f.resolve(line))
		}

		if err := tbl.SetRowComment(r, field.Comment); err != nil {
			return 0, err
		}
	}

	width := 0
	for _, w := range f.Table.ColumnWidths {
		width += w
	}
	return width, nil
}

func (f *Form) addAttachments(doc *docxkit.Document, width int) error {
	tbl, err := doc.AddTable(1, 1)
	if err != nil {
		return err
	}
	tbl.Comment = f.Attachments.Comment
	if width > 0 {
		tbl.ColumnWidths = []int{width}
	}
	f.applyBorder(tbl)

	cell, err := tbl.Cell(0, 0)
	if err != nil {
		return err
	}
	if f.Attachments.Heading != "" {
		cell.AddParagraph(docxkit.AlignCenter).AddRun(docxkit.Run{Text: f.resolve(f.Attachments.Heading), Bold: true})
	}
	for _, item := range f.Attachments.Items {
		cell.AddParagraph(docxkit.AlignDefault).AddText(f.resolve(item))
	}
	return nil
}

func (f *Form) applyBorder(tbl *docxkit.Table) {
	if f.Table.Border == nil {
		return
	}
	b := docxkit.Border{
		Style: f.Table.Border.Style,
		Size:  f.Table.Border.Size,
		Space: f.Table.Border.Space,
		Color: f.Table.Border.Color,
	}
	tbl.Borders = &b
	tbl.SetCellBorders(b)
}

// resolve substitutes ${key} references; unknown keys are left as they are
// and reported by Validate
func (f *Form) resolve(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return referencePattern.ReplaceAllStringFunc(s, func(ref string) string {
		key := ref[2 : len(ref)-1]
		if v, ok := f.Organization[key]; ok {
			return v
		}
		return ref
	})
}

type namedSection struct {
	field   string
	section Section
}

func (f *Form) sections() []namedSection {
	return []namedSection{
		{"heading", f.Heading},
		{"declaration", f.Declaration},
		{"date", f.Date},
		{"signature", f.Signature},
		{"recipient", f.Recipient},
	}
}

type line struct {
	field string
	text  string
}

// lines returns every text of the form in document order
func (f *Form) lines() []line {
	var out []line
	addSection := func(name string, s Section) {
		for i, l := range s.Lines {
			out = append(out, line{fmt.Sprintf("%s.lines[%d]", name, i), l})
		}
	}

	addSection("heading", f.Heading)
	for r, field := range f.Table.Fields {
		out = append(out, line{fmt.Sprintf("table.fields[%d].label", r), field.Label})
		for i, l := range field.Lines {
			out = append(out, line{fmt.Sprintf("table.fields[%d].lines[%d]", r, i), l})
		}
	}
	for _, s := range f.sections()[1:] {
		addSection(s.field, s.section)
	}
	if f.Attachments.Heading != "" {
		out = append(out, line{"attachments.heading", f.Attachments.Heading})
	}
	for i, item := range f.Attachments.Items {
		out = append(out, line{fmt.Sprintf("attachments.items[%d]", i), item})
	}
	return out
}

func alignment(s string) (docxkit.Alignment, bool) {
	switch docxkit.Alignment(s) {
	case "":
		return docxkit.AlignCenter, true
	case docxkit.AlignLeft, docxkit.AlignCenter, docxkit.AlignRight, docxkit.AlignBoth:
		return docxkit.Alignment(s), true
	default:
		return "", false
	}
}

func setMargin(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
