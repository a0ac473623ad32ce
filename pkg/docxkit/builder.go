package docxkit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Strategy selects how the document model is lowered to the body part
type Strategy string

const (
	// StrategyMarkup writes the body part directly as text. Every model run
	// becomes exactly one w:r, so a placeholder never straddles runs.
	StrategyMarkup Strategy = "markup"
	// StrategyObject builds the xml object model, merges adjacent runs with
	// equal formatting and marshals it.
	StrategyObject Strategy = "object"
)

// ParseStrategy converts a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyMarkup, StrategyObject:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, StrategyMarkup, StrategyObject)
	}
}

// Builder produces DOCX packages from a Document
type Builder struct {
	*settings
}

// NewBuilder creates a builder; options override the global configuration
func NewBuilder(opts ...Option) *Builder {
	return &Builder{settings: newSettings(opts)}
}

// Strategy returns the configured lowering strategy
func (b *Builder) Strategy() Strategy {
	strategy, err := ParseStrategy(b.config.Strategy)
	if err != nil {
		return StrategyMarkup
	}
	return strategy
}

// Build validates doc, lowers it and assembles the package in memory.
// The returned package has passed Validate.
func (b *Builder) Build(doc *Document) (*Package, error) {
	pkg, err := b.build(doc)
	if err != nil {
		b.metrics.observeFailure("build")
		return nil, err
	}
	return pkg, nil
}

func (b *Builder) build(doc *Document) (*Package, error) {
	if doc == nil {
		return nil, &ValidationError{Issues: []ValidationIssue{{Field: "document", Message: "nil document"}}}
	}
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	body, err := b.lower(doc)
	if err != nil {
		return nil, err
	}

	pkg := NewPackage()
	pkg.SetModTime(b.config.ModTime)
	pkg.SetCompression(b.compression())

	pkg.AddRelationship("", RelTypeOfficeDocument, DocumentPart)
	if err := pkg.AddPart(DocumentPart, ContentTypeDocument, body); err != nil {
		return nil, err
	}

	if b.config.FullParts {
		if err := b.addFullParts(pkg, doc); err != nil {
			return nil, err
		}
	}

	if err := pkg.Validate(); err != nil {
		return nil, err
	}

	b.logger.WithFields(Fields{
		"strategy": b.Strategy(),
		"parts":    len(pkg.PartNames()),
		"blocks":   len(doc.Blocks),
	}).Debug("package assembled")

	return pkg, nil
}

func (b *Builder) lower(doc *Document) ([]byte, error) {
	l := lowering{
		annotate:  b.config.Annotate,
		normalize: b.config.NormalizeText,
	}

	switch b.Strategy() {
	case StrategyObject:
		if l.annotate {
			b.logger.Warn("annotations are not written by the %s strategy", StrategyObject)
		}
		body, err := renderObject(doc, l)
		if err != nil {
			return nil, NewPackagingError(DocumentPart, "failed to serialize body", err)
		}
		return body, nil
	default:
		return renderMarkup(doc, l), nil
	}
}

// addFullParts adds the members written by document-model libraries
func (b *Builder) addFullParts(pkg *Package, doc *Document) error {
	pkg.AddRelationship(DocumentPart, RelTypeStyles, "styles.xml")
	if err := pkg.AddPart(StylesPart, ContentTypeStyles, []byte(stylesXML)); err != nil {
		return err
	}
	pkg.AddRelationship(DocumentPart, RelTypeSettings, "settings.xml")
	if err := pkg.AddPart(SettingsPart, ContentTypeSettings, []byte(settingsXML)); err != nil {
		return err
	}

	core, err := corePropertiesXML(doc.Properties, b.config.ModTime)
	if err != nil {
		return NewPackagingError(CorePropertiesPart, "failed to serialize", err)
	}
	pkg.AddRelationship("", RelTypeCore, CorePropertiesPart)
	if err := pkg.AddPart(CorePropertiesPart, ContentTypeCore, core); err != nil {
		return err
	}

	app, err := appPropertiesXML(Version)
	if err != nil {
		return NewPackagingError(AppPropertiesPart, "failed to serialize", err)
	}
	pkg.AddRelationship("", RelTypeApp, AppPropertiesPart)
	return pkg.AddPart(AppPropertiesPart, ContentTypeApp, app)
}

// Write builds doc and writes the archive to w
func (b *Builder) Write(doc *Document, w io.Writer) error {
	pkg, err := b.Build(doc)
	if err != nil {
		return err
	}
	n, err := pkg.WriteTo(w)
	if err != nil {
		b.metrics.observeFailure("build")
		if IsPackagingError(err) {
			return err
		}
		return NewIOError("write", "", err)
	}
	b.metrics.observeBuild(b.Strategy(), len(pkg.PartNames()), int(n))
	return nil
}

// WriteFile builds doc and writes it to path. The parent directory must
// exist and be writable. Nothing is left at path when building fails.
func (b *Builder) WriteFile(doc *Document, path string) error {
	log := b.logger.WithField("path", path)

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		b.metrics.observeFailure("build")
		return NewIOError("stat", dir, err)
	}
	if !info.IsDir() {
		b.metrics.observeFailure("build")
		return NewIOError("stat", dir, errors.New("not a directory"))
	}

	pkg, err := b.Build(doc)
	if err != nil {
		return err
	}
	data, err := pkg.Bytes()
	if err != nil {
		b.metrics.observeFailure("build")
		return err
	}

	if err := writeFileAtomic(path, data); err != nil {
		b.metrics.observeFailure("build")
		return err
	}

	b.metrics.observeBuild(b.Strategy(), len(pkg.PartNames()), len(data))
	log.WithFields(Fields{
		"bytes":    len(data),
		"strategy": b.Strategy(),
	}).Info("package written")
	return nil
}

// writeFileAtomic writes data next to path and renames it into place, so
// readers never observe a partial archive
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return NewIOError("create", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return NewIOError("write", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return NewIOError("chmod", path, err)
	}
	if err = tmp.Close(); err != nil {
		return NewIOError("close", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return NewIOError("rename", path, err)
	}
	return nil
}
