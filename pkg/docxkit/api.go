package docxkit

import (
	"archive/zip"
	"time"
)

// Version of the docxkit module
const Version = "0.1.0"

// Option configures a Builder or a Stripper
type Option func(*settings)

type settings struct {
	config  *Config
	logger  *Logger
	metrics *Metrics
}

func newSettings(opts []Option) *settings {
	s := &settings{config: GetGlobalConfig()}
	for _, opt := range opts {
		opt(s)
	}
	s.config = NewConfigWithDefaults(s.config)
	if s.logger == nil {
		s.logger = GetLogger()
	}
	return s
}

// compression maps the configured compression name onto a zip method
func (s *settings) compression() uint16 {
	if s.config.Compression == "store" {
		return zip.Store
	}
	return zip.Deflate
}

// WithConfig replaces the configuration. Options applied after it still
// take effect.
func WithConfig(config *Config) Option {
	return func(s *settings) {
		if config == nil {
			return
		}
		c := *config
		s.config = &c
	}
}

// WithStrategy selects how the model is lowered to the body part
func WithStrategy(strategy Strategy) Option {
	return func(s *settings) {
		s.config.Strategy = string(strategy)
	}
}

// WithFullParts writes styles, settings and document properties alongside
// the three minimal members
func WithFullParts(full bool) Option {
	return func(s *settings) {
		s.config.FullParts = full
	}
}

// WithAnnotations emits paragraph, table and row comments as XML comments
func WithAnnotations(annotate bool) Option {
	return func(s *settings) {
		s.config.Annotate = annotate
	}
}

// WithModTime stamps every archive member with t
func WithModTime(t time.Time) Option {
	return func(s *settings) {
		s.config.ModTime = t
	}
}

// WithTempDir sets the parent of the stripper's extraction directory
func WithTempDir(dir string) Option {
	return func(s *settings) {
		s.config.TempDir = dir
	}
}

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(logger *Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics records counters on m
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// Build lowers doc into a package with the global configuration
func Build(doc *Document) (*Package, error) {
	return NewBuilder().Build(doc)
}

// WriteFile builds doc and writes it to path with the global configuration
func WriteFile(doc *Document, path string) error {
	return NewBuilder().WriteFile(doc, path)
}

// StripFile removes XML comments from the body part of the package at in
// and writes the result to out, using the global configuration
func StripFile(in, out string) (*StripResult, error) {
	return NewStripper().StripFile(in, out)
}
