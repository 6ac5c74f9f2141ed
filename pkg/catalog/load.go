// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/unitfold/unitfold/pkg/cueutil"
)

const (
	// FormatCUE is a CUE document.
	FormatCUE Format = "cue"
	// FormatJSON is a JSON document, compiled by CUE.
	FormatJSON Format = "json"
	// FormatTOML is a TOML document.
	FormatTOML Format = "toml"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"

	// MaxSourceSize bounds a single catalog document.
	MaxSourceSize = 1 << 20

	schemaRoot = "#Catalog"
)

var (
	//go:embed catalog_schema.cue
	schemaBytes []byte

	//go:embed builtin/*.cue
	builtinFS embed.FS

	builtinOnce = sync.OnceValues(func() (*Catalog, error) {
		return Load(context.Background())
	})
)

type (
	// Format identifies the encoding of a catalog document.
	Format string

	// Source is one catalog document awaiting parsing.
	Source struct {
		// Name identifies the source in errors and logs.
		Name   string
		Format Format
		Data   []byte
	}

	// Document is the decoded form of a catalog source.
	Document struct {
		Units    []Unit         `json:"units"`
		Prefixes map[string]int `json:"prefixes,omitempty"`
	}

	loadOptions struct {
		builtin bool
		sources []Source
		files   []string
	}

	// LoadOption configures Load.
	LoadOption func(*loadOptions)
)

// WithBuiltin controls whether the embedded SI catalog is loaded first.
// Default is true.
func WithBuiltin(enabled bool) LoadOption {
	return func(o *loadOptions) {
		o.builtin = enabled
	}
}

// WithSources appends in-memory sources, loaded after the builtin catalog.
func WithSources(sources ...Source) LoadOption {
	return func(o *loadOptions) {
		o.sources = append(o.sources, sources...)
	}
}

// WithFiles appends catalog files, loaded after in-memory sources.
func WithFiles(paths ...string) LoadOption {
	return func(o *loadOptions) {
		o.files = append(o.files, paths...)
	}
}

// Builtin returns the process-wide catalog built from the embedded sources.
// It is loaded once; later calls return the same instance.
func Builtin() (*Catalog, error) {
	return builtinOnce()
}

// Load builds and validates a catalog. Sources are applied in order: builtin,
// in-memory, then files. A later source may redefine a tag from an earlier one.
func Load(ctx context.Context, opts ...LoadOption) (*Catalog, error) {
	o := loadOptions{builtin: true}
	for _, opt := range opts {
		opt(&o)
	}

	sources := make([]Source, 0, len(o.sources)+len(o.files)+3)
	if o.builtin {
		builtin, err := BuiltinSources()
		if err != nil {
			return nil, err
		}
		sources = append(sources, builtin...)
	}
	sources = append(sources, o.sources...)
	for _, p := range o.files {
		src, err := ReadSource(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	c, err := New()
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ParseSource(src)
		if err != nil {
			return nil, err
		}
		if err := c.apply(src.Name, doc); err != nil {
			return nil, err
		}
	}

	if err := Validate(c); err != nil {
		return nil, err
	}
	slog.Debug("catalog loaded", "sources", len(sources), "units", c.Len())
	return c, nil
}

// BuiltinSources returns the embedded catalog documents in load order.
func BuiltinSources() ([]Source, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin catalog: %w", err)
	}
	sources := make([]Source, 0, len(entries))
	for _, e := range entries {
		name := path.Join("builtin", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read builtin catalog: %w", err)
		}
		sources = append(sources, Source{Name: name, Format: FormatCUE, Data: data})
	}
	return sources, nil
}

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Path: p}
	}
}

// ReadSource reads a catalog file from disk.
func ReadSource(p string) (Source, error) {
	format, err := FormatFromPath(p)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Source{}, fmt.Errorf("read catalog %s: %w", p, err)
	}
	return Source{Name: p, Format: format, Data: data}, nil
}

// ParseSource decodes and schema-validates one document. Cross-references
// are not checked here.
func ParseSource(src Source) (*Document, error) {
	opts := []cueutil.Option{cueutil.WithFilename(src.Name), cueutil.WithMaxFileSize(MaxSourceSize)}

	var (
		result *cueutil.ParseResult[Document]
		err    error
	)
	switch src.Format {
	case FormatCUE, FormatJSON:
		result, err = cueutil.ParseAndDecode[Document](schemaBytes, src.Data, schemaRoot, opts...)
	case FormatTOML, FormatYAML:
		var raw map[string]any
		raw, err = decodeRaw(src)
		if err != nil {
			return nil, err
		}
		result, err = cueutil.DecodeValue[Document](schemaBytes, raw, schemaRoot, opts...)
	default:
		return nil, &UnsupportedFormatError{Path: src.Name}
	}
	if err != nil {
		return nil, err
	}

	doc := result.Value
	seen := make(map[string]bool, len(doc.Units))
	for _, u := range doc.Units {
		if seen[u.Tag] {
			return nil, &DuplicateTagError{Tag: u.Tag, Source: src.Name}
		}
		seen[u.Tag] = true
	}
	return doc, nil
}

func decodeRaw(src Source) (map[string]any, error) {
	if err := cueutil.CheckFileSize(src.Data, MaxSourceSize, src.Name); err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	switch src.Format {
	case FormatTOML:
		if err := toml.Unmarshal(src.Data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(src.Data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
	}
	return raw, nil
}

func (c *Catalog) apply(source string, doc *Document) error {
	for symbol, exp := range doc.Prefixes {
		if err := c.SetPrefix(symbol, exp); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
	}
	for _, u := range doc.Units {
		if _, exists := c.Resolve(u.Tag); exists {
			slog.Debug("catalog unit redefined", "tag", u.Tag, "source", source)
		}
		if err := c.Insert(u); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
	}
	return nil
}
