package docxkit

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`

func minimalPackage(t *testing.T) *Package {
	t.Helper()
	pkg := NewPackage()
	pkg.AddRelationship("", RelTypeOfficeDocument, DocumentPart)
	require.NoError(t, pkg.AddPart(DocumentPart, ContentTypeDocument, []byte(minimalBody)))
	return pkg
}

func TestPackageMinimalMembers(t *testing.T) {
	data, err := minimalPackage(t).Bytes()
	require.NoError(t, err)

	names, contents := readZip(t, data)
	assert.Equal(t, []string{ContentTypesPart, RootRelationshipsPart, DocumentPart}, names)

	ct := string(contents[ContentTypesPart])
	assert.Contains(t, ct, `<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml">`)
	assert.Contains(t, ct, `<Default Extension="xml" ContentType="application/xml">`)
	assert.Contains(t, ct, `<Override PartName="/word/document.xml" ContentType="`+ContentTypeDocument+`">`)

	rels := string(contents[RootRelationshipsPart])
	assert.Contains(t, rels, `Id="rId1"`)
	assert.Contains(t, rels, `Target="word/document.xml"`)
	assert.Contains(t, rels, RelTypeOfficeDocument)

	assert.Equal(t, minimalBody, string(contents[DocumentPart]))
}

func TestPackageValidate(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Package)
		wantErr bool
	}{
		{
			name:  "minimal package is valid",
			setup: func(*Package) {},
		},
		{
			name: "dangling root relationship",
			setup: func(p *Package) {
				p.AddRelationship("", RelTypeCore, CorePropertiesPart)
			},
			wantErr: true,
		},
		{
			name: "dangling part relationship",
			setup: func(p *Package) {
				p.AddRelationship(DocumentPart, RelTypeStyles, "styles.xml")
			},
			wantErr: true,
		},
		{
			name: "part relationship resolved against source directory",
			setup: func(p *Package) {
				p.AddRelationship(DocumentPart, RelTypeStyles, "styles.xml")
				_ = p.AddPart(StylesPart, ContentTypeStyles, []byte("<w:styles/>"))
			},
		},
		{
			name: "override without part",
			setup: func(p *Package) {
				p.AddOverride(SettingsPart, ContentTypeSettings)
			},
			wantErr: true,
		},
		{
			name: "relationships of a missing source",
			setup: func(p *Package) {
				p.AddRelationship("word/missing.xml", RelTypeStyles, "document.xml")
			},
			wantErr: true,
		},
		{
			name: "part without content type",
			setup: func(p *Package) {
				_ = p.AddPart("media/image.png", "", []byte{0x89})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := minimalPackage(t)
			tt.setup(pkg)
			err := pkg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsPackagingError(err), "got %T: %v", err, err)
				_, werr := pkg.Bytes()
				assert.Error(t, werr, "invalid package must not be written")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPackageMissingBodyAndRoot(t *testing.T) {
	err := NewPackage().Validate()
	require.Error(t, err)

	var multi *MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Len())
}

func TestPackageAddPartRejects(t *testing.T) {
	pkg := minimalPackage(t)

	err := pkg.AddPart(DocumentPart, ContentTypeDocument, nil)
	assert.True(t, IsPackagingError(err), "duplicate part")

	err = pkg.AddPart(ContentTypesPart, "", nil)
	assert.True(t, IsPackagingError(err), "content types are generated")

	err = pkg.AddPart("word/_rels/document.xml.rels", "", nil)
	assert.True(t, IsPackagingError(err), "relationship parts are generated")

	err = pkg.AddPart("", "", nil)
	assert.True(t, IsPackagingError(err), "empty name")
}

func TestPackageDeterministic(t *testing.T) {
	a, err := minimalPackage(t).Bytes()
	require.NoError(t, err)
	b, err := minimalPackage(t).Bytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPackageModTimeAndCompression(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	pkg := minimalPackage(t)
	pkg.SetModTime(stamp)
	pkg.SetCompression(zip.Store)

	data, err := pkg.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method, f.Name)
		assert.True(t, f.Modified.Equal(stamp), "%s modified %v", f.Name, f.Modified)
	}
}

func TestRelsPartNames(t *testing.T) {
	assert.Equal(t, "_rels/.rels", relsPartFor(""))
	assert.Equal(t, "word/_rels/document.xml.rels", relsPartFor("word/document.xml"))

	src, ok := sourceOfRels("word/_rels/document.xml.rels")
	assert.True(t, ok)
	assert.Equal(t, "word/document.xml", src)

	src, ok = sourceOfRels("_rels/.rels")
	assert.True(t, ok)
	assert.Equal(t, "", src)

	_, ok = sourceOfRels("word/document.xml")
	assert.False(t, ok)

	assert.Equal(t, "word/styles.xml", resolveTarget("word/document.xml", "styles.xml"))
	assert.Equal(t, "word/document.xml", resolveTarget("", "word/document.xml"))
	assert.Equal(t, "docProps/core.xml", resolveTarget("word/document.xml", "../docProps/core.xml"))
	assert.Equal(t, "word/document.xml", resolveTarget("", "/word/document.xml"))
}
