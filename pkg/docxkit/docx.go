package docxkit

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Reader gives read access to the parts of an existing package
type Reader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewReader indexes the members of a package and requires a body part
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, NewPackagingError("", "not a zip archive", err)
	}

	dr := &Reader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	// Index all parts by name
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[DocumentPart]; !ok {
		return nil, NewPackagingError(DocumentPart, "document body part is missing", nil)
	}

	return dr, nil
}

// ReadPackage reads a whole package from memory
func ReadPackage(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// OpenPackage reads a package from disk. A missing file is a NotFoundError.
func OpenPackage(path string) (*Reader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, NewIOError("read", path, err)
	}
	return ReadPackage(content)
}

// Files returns the members in archive order
func (dr *Reader) Files() []*zip.File {
	return dr.reader.File
}

// DocumentXML returns the content of word/document.xml
func (dr *Reader) DocumentXML() ([]byte, error) {
	return dr.GetPart(DocumentPart)
}

// GetPart retrieves the content of a specific part
func (dr *Reader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, NewPackagingError(partName, "part not found", nil)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, NewPackagingError(partName, "failed to open part", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewPackagingError(partName, "failed to read part", err)
	}

	return content, nil
}

// GetRelationships retrieves relationships for a given part; "" is the
// package root. A missing relationships part yields no relationships.
func (dr *Reader) GetRelationships(partName string) ([]Relationship, error) {
	relPath := relsPartFor(partName)

	if _, ok := dr.Parts[relPath]; !ok {
		return []Relationship{}, nil
	}

	content, err := dr.GetPart(relPath)
	if err != nil {
		return nil, err
	}

	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, NewPackagingError(relPath, "failed to parse relationships", err)
	}

	return rels.Relationship, nil
}

// GetContentTypes parses [Content_Types].xml
func (dr *Reader) GetContentTypes() (*ContentTypes, error) {
	content, err := dr.GetPart(ContentTypesPart)
	if err != nil {
		return nil, err
	}
	var ct ContentTypes
	if err := xml.Unmarshal(content, &ct); err != nil {
		return nil, NewPackagingError(ContentTypesPart, "failed to parse content types", err)
	}
	return &ct, nil
}

// ListParts returns the part names in archive order
func (dr *Reader) ListParts() []string {
	parts := make([]string, 0, len(dr.reader.File))
	for _, file := range dr.reader.File {
		parts = append(parts, file.Name)
	}
	return parts
}

// CheckIntegrity verifies that the root relationships reach the body part
// and that every internal target and override exists
func (dr *Reader) CheckIntegrity() error {
	errs := NewMultiError()

	ct, err := dr.GetContentTypes()
	if err != nil {
		errs.Add(err)
	} else {
		for _, o := range ct.Overrides {
			name := o.PartName
			if len(name) > 0 && name[0] == '/' {
				name = name[1:]
			}
			if _, ok := dr.Parts[name]; !ok {
				errs.Add(NewPackagingError(o.PartName, "content type override names a missing part", nil))
			}
		}
	}

	for _, name := range dr.ListParts() {
		source, ok := sourceOfRels(name)
		if !ok {
			continue
		}
		rels, err := dr.GetRelationships(source)
		if err != nil {
			errs.Add(err)
			continue
		}
		for _, rel := range rels {
			if rel.TargetMode == "External" {
				continue
			}
			target := resolveTarget(source, rel.Target)
			if _, ok := dr.Parts[target]; !ok {
				errs.Add(NewPackagingError(target, fmt.Sprintf("relationship %s from '%s' targets a missing part", rel.ID, name), nil))
			}
		}
	}

	rootRels, err := dr.GetRelationships("")
	if err == nil {
		found := false
		for _, rel := range rootRels {
			if rel.Type == RelTypeOfficeDocument && resolveTarget("", rel.Target) == DocumentPart {
				found = true
			}
		}
		if !found {
			errs.Add(NewPackagingError(RootRelationshipsPart, "no officeDocument relationship to "+DocumentPart, nil))
		}
	}

	return errs.Err()
}
