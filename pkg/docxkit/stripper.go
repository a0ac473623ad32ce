package docxkit

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// commentPattern matches one XML comment, newlines included
var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// CountComments returns the number of XML comments in body
func CountComments(body []byte) int {
	return len(commentPattern.FindAllIndex(body, -1))
}

// StripComments removes every XML comment from body. It returns the new
// content and the number of comments removed.
func StripComments(body []byte) ([]byte, int) {
	n := CountComments(body)
	if n == 0 {
		return body, 0
	}
	return commentPattern.ReplaceAll(body, nil), n
}

// DefaultStripOutput names the output next to the input:
// "form.docx" -> "form_nocomments.docx"
func DefaultStripOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_nocomments" + ext
}

// StripResult reports what a strip pass did
type StripResult struct {
	Input  string
	Output string
	// Before and After are the comment counts of the body part
	Before int
	After  int
	// Members is the number of archive members written
	Members int
}

// Stripper removes XML comments from the body part of existing packages
type Stripper struct {
	*settings
}

// NewStripper creates a stripper; options override the global configuration
func NewStripper(opts ...Option) *Stripper {
	return &Stripper{settings: newSettings(opts)}
}

// StripFile extracts the package at in into a scoped temporary directory,
// removes the comments from word/document.xml and re-assembles every member
// in the input member order into out. An empty out uses DefaultStripOutput.
// The temporary directory is removed on every return path.
func (s *Stripper) StripFile(in, out string) (*StripResult, error) {
	result, err := s.stripFile(in, out)
	if err != nil {
		s.metrics.observeFailure("strip")
		return nil, err
	}
	return result, nil
}

func (s *Stripper) stripFile(in, out string) (*StripResult, error) {
	if out == "" {
		out = DefaultStripOutput(in)
	}
	log := s.logger.WithFields(Fields{"input": in, "output": out})

	if _, err := os.Stat(in); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: in}
		}
		return nil, NewIOError("stat", in, err)
	}

	zr, err := zip.OpenReader(in)
	if errors.Is(err, zip.ErrInsecurePath) {
		if zr != nil {
			zr.Close()
		}
		return nil, NewPackagingError("", "member path escapes the extraction directory", err)
	}
	if err != nil {
		return nil, NewPackagingError("", "not a zip archive", err)
	}
	defer zr.Close()

	tmp, err := os.MkdirTemp(s.config.TempDir, "docxkit-strip-*")
	if err != nil {
		return nil, NewIOError("mkdir", s.config.TempDir, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			log.Warn("failed to remove temp dir %s: %v", tmp, rmErr)
		}
	}()
	log.Debug("extracting %d members to %s", len(zr.File), tmp)

	for _, f := range zr.File {
		if err := extractMember(f, tmp); err != nil {
			return nil, err
		}
	}

	bodyPath := filepath.Join(tmp, filepath.FromSlash(DocumentPart))
	body, err := os.ReadFile(bodyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewPackagingError(DocumentPart, "document body part is missing", nil)
		}
		return nil, NewIOError("read", bodyPath, err)
	}

	stripped, before := StripComments(body)
	after := CountComments(stripped)
	if err := os.WriteFile(bodyPath, stripped, 0o644); err != nil {
		return nil, NewIOError("write", bodyPath, err)
	}

	data, err := repack(zr.File, tmp)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(out, data); err != nil {
		return nil, err
	}

	if after != 0 {
		log.Error("%d comments remain after stripping", after)
	}
	s.metrics.observeStrip(before, len(data))
	log.WithFields(Fields{"before": before, "after": after}).Info("comments stripped")

	return &StripResult{
		Input:   in,
		Output:  out,
		Before:  before,
		After:   after,
		Members: len(zr.File),
	}, nil
}

// memberPath maps a member name into dir, rejecting names that would
// escape it
func memberPath(dir, name string) (string, error) {
	local := filepath.FromSlash(strings.TrimSuffix(name, "/"))
	if local == "" || !filepath.IsLocal(local) {
		return "", NewPackagingError(name, "member path escapes the extraction directory", nil)
	}
	return filepath.Join(dir, local), nil
}

func extractMember(f *zip.File, dir string) error {
	target, err := memberPath(dir, f.Name)
	if err != nil {
		return err
	}

	if strings.HasSuffix(f.Name, "/") {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return NewIOError("mkdir", target, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return NewIOError("mkdir", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return NewPackagingError(f.Name, "failed to open member", err)
	}
	defer rc.Close()

	dst, err := os.Create(target)
	if err != nil {
		return NewIOError("create", target, err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		dst.Close()
		return NewPackagingError(f.Name, "failed to extract member", err)
	}
	if err := dst.Close(); err != nil {
		return NewIOError("close", target, err)
	}
	return nil
}

// repack re-assembles the extracted tree into a new archive with the
// original member order, names, compression methods and timestamps
func repack(files []*zip.File, dir string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		// Raw DOS timestamps are copied and Modified left zero, so the
		// writer keeps them as they were
		header := &zip.FileHeader{
			Name:          f.Name,
			Comment:       f.Comment,
			Method:        f.Method,
			ModifiedTime:  f.ModifiedTime,
			ModifiedDate:  f.ModifiedDate,
			ExternalAttrs: f.ExternalAttrs,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, NewPackagingError(f.Name, "failed to create member", err)
		}
		if strings.HasSuffix(f.Name, "/") {
			continue
		}

		target, err := memberPath(dir, f.Name)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, NewIOError("read", target, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, NewPackagingError(f.Name, "failed to write member", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, NewPackagingError("", "failed to finalize archive", err)
	}
	return buf.Bytes(), nil
}
