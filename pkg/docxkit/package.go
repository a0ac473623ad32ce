package docxkit

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// Part is a named member of a package
type Part struct {
	Name string
	Data []byte
}

// Package is an OOXML package under construction: ordered parts, the
// content-type manifest and the relationships between parts.
// A Package is not safe for concurrent use.
type Package struct {
	contentTypes ContentTypes
	// relationships keyed by source part; "" is the package root
	rels      map[string]*Relationships
	relsOrder []string

	parts []*Part
	index map[string]*Part

	modTime time.Time
	method  uint16
}

// NewPackage returns an empty package with the rels and xml defaults
func NewPackage() *Package {
	p := &Package{
		contentTypes: ContentTypes{
			Namespace: namespaceContentTypes,
			Defaults: []Default{
				{Extension: "rels", ContentType: ContentTypeRelationships},
				{Extension: "xml", ContentType: ContentTypeXML},
			},
		},
		rels:   make(map[string]*Relationships),
		index:  make(map[string]*Part),
		method: zip.Deflate,
	}
	return p
}

// SetModTime stamps every member with t. The zero time leaves the
// timestamp fields empty.
func (p *Package) SetModTime(t time.Time) {
	p.modTime = t
}

// SetCompression selects zip.Deflate or zip.Store for all members
func (p *Package) SetCompression(method uint16) {
	p.method = method
}

// AddPart adds a part. A non-empty contentType adds an Override entry.
func (p *Package) AddPart(name, contentType string, data []byte) error {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return NewPackagingError(name, "empty part name", nil)
	}
	if isGeneratedPart(name) {
		return NewPackagingError(name, "part is generated from the package structure", nil)
	}
	if _, exists := p.index[name]; exists {
		return NewPackagingError(name, "duplicate part", nil)
	}

	part := &Part{Name: name, Data: data}
	p.parts = append(p.parts, part)
	p.index[name] = part

	if contentType != "" {
		p.contentTypes.Overrides = append(p.contentTypes.Overrides, Override{
			PartName:    "/" + name,
			ContentType: contentType,
		})
	}
	return nil
}

// AddOverride declares a content type for a part name without adding the
// part. Validate fails unless the part is added before writing.
func (p *Package) AddOverride(name, contentType string) {
	p.contentTypes.Overrides = append(p.contentTypes.Overrides, Override{
		PartName:    "/" + strings.TrimPrefix(name, "/"),
		ContentType: contentType,
	})
}

// AddRelationship records a relationship from source ("" for the package
// root) to target and returns its id. Targets are relative to the source
// part's directory.
func (p *Package) AddRelationship(source, relType, target string) string {
	rels, ok := p.rels[source]
	if !ok {
		rels = &Relationships{Namespace: namespacePackageRelationships}
		p.rels[source] = rels
		p.relsOrder = append(p.relsOrder, source)
	}
	id := fmt.Sprintf("rId%d", len(rels.Relationship)+1)
	rels.Relationship = append(rels.Relationship, Relationship{
		ID:     id,
		Type:   relType,
		Target: target,
	})
	return id
}

// Relationships returns the relationships whose source is the given part
func (p *Package) Relationships(source string) []Relationship {
	rels, ok := p.rels[source]
	if !ok {
		return nil
	}
	return rels.Relationship
}

// ContentTypes returns a copy of the manifest
func (p *Package) ContentTypes() ContentTypes {
	ct := p.contentTypes
	ct.Defaults = append([]Default(nil), ct.Defaults...)
	ct.Overrides = append([]Override(nil), ct.Overrides...)
	return ct
}

// Part returns the content of a part added with AddPart
func (p *Package) Part(name string) ([]byte, bool) {
	part, ok := p.index[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, false
	}
	return part.Data, true
}

// PartNames lists every archive member in write order
func (p *Package) PartNames() []string {
	names := []string{ContentTypesPart}
	for _, source := range p.relsOrder {
		if source == "" {
			names = append(names, RootRelationshipsPart)
		}
	}
	for _, part := range p.parts {
		names = append(names, part.Name)
	}
	for _, source := range p.relsOrder {
		if source != "" {
			names = append(names, relsPartFor(source))
		}
	}
	return names
}

func isGeneratedPart(name string) bool {
	if name == ContentTypesPart {
		return true
	}
	_, ok := sourceOfRels(name)
	return ok
}

// Validate checks referential integrity: every override names an existing
// part, every internal relationship target exists and every member has a
// content type.
func (p *Package) Validate() error {
	errs := NewMultiError()

	if _, ok := p.index[DocumentPart]; !ok {
		errs.Add(NewPackagingError(DocumentPart, "document body part is missing", nil))
	}

	present := make(map[string]bool, len(p.parts)+len(p.relsOrder)+1)
	for _, name := range p.PartNames() {
		present[name] = true
	}

	for _, o := range p.contentTypes.Overrides {
		if !present[strings.TrimPrefix(o.PartName, "/")] {
			errs.Add(NewPackagingError(o.PartName, "content type override names a missing part", nil))
		}
	}

	foundRoot := false
	for _, source := range p.relsOrder {
		if source == "" {
			foundRoot = true
		} else if !present[source] {
			errs.Add(NewPackagingError(relsPartFor(source), "relationships belong to a missing part", nil))
		}
		for _, rel := range p.rels[source].Relationship {
			if rel.TargetMode == "External" {
				continue
			}
			target := resolveTarget(source, rel.Target)
			if !present[target] {
				errs.Add(NewPackagingError(target, fmt.Sprintf("relationship %s from '%s' targets a missing part", rel.ID, relsPartFor(source)), nil))
			}
		}
	}
	if !foundRoot {
		errs.Add(NewPackagingError(RootRelationshipsPart, "package has no root relationships", nil))
	}

	for _, part := range p.parts {
		if _, ok := p.contentTypes.ContentTypeFor(part.Name); !ok {
			errs.Add(NewPackagingError(part.Name, "no content type declared", nil))
		}
	}

	return errs.Err()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// WriteTo validates the package and writes it as a zip archive.
// Identical packages produce identical bytes.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, name := range p.PartNames() {
		data, err := p.memberData(name)
		if err != nil {
			return cw.n, err
		}

		header := &zip.FileHeader{Name: name, Method: p.method}
		if !p.modTime.IsZero() {
			header.Modified = p.modTime
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return cw.n, NewPackagingError(name, "failed to create member", err)
		}
		if _, err := fw.Write(data); err != nil {
			return cw.n, NewPackagingError(name, "failed to write member", err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, NewPackagingError("", "failed to finalize archive", err)
	}
	return cw.n, nil
}

// Bytes returns the archive in memory
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Package) memberData(name string) ([]byte, error) {
	if name == ContentTypesPart {
		return marshalPart(&p.contentTypes)
	}
	if source, ok := sourceOfRels(name); ok {
		if rels, ok := p.rels[source]; ok {
			return marshalPart(rels)
		}
	}
	part, ok := p.index[name]
	if !ok {
		return nil, NewPackagingError(name, "part is missing", nil)
	}
	return part.Data, nil
}
