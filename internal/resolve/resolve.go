package resolve

import (
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2deck/internal/csvdata"
	"github.com/alnah/go-md2deck/internal/params"
	"github.com/alnah/go-md2deck/internal/tags"
)

// Sentinel errors for tag resolution.
var (
	// ErrDataRead indicates a CSV file referenced by a tag could not be read.
	ErrDataRead = errors.New("failed to read data file")

	// ErrUnknownKind indicates no resolver is registered for a tag kind.
	ErrUnknownKind = errors.New("no resolver registered for tag kind")
)

// Default URL prefixes, relative to the generated index.html.
const (
	DefaultImageURLPrefix  = "assets/images"
	DefaultScriptURLPrefix = "scripts"
	DefaultVideoEmbedURL   = "https://www.youtube.com/embed/"
)

// TableLoader reads tabular data for table and chart tags.
type TableLoader interface {
	LoadTable(path string) (*csvdata.Table, error)
}

// TableLoaderFunc adapts a function to TableLoader.
type TableLoaderFunc func(path string) (*csvdata.Table, error)

// LoadTable calls f(path).
func (f TableLoaderFunc) LoadTable(path string) (*csvdata.Table, error) {
	return f(path)
}

// Context carries the per-build state shared by resolvers.
// A Context must not be reused across builds: its IDSequence guarantees
// uniqueness only within one build.
type Context struct {
	DataDir         string
	ImageURLPrefix  string
	ScriptURLPrefix string
	VideoEmbedURL   string
	IDs             *IDSequence
	Tables          TableLoader
}

// NewContext creates a Context reading CSV files from dataDir, with default
// URL prefixes and a fresh id sequence.
func NewContext(dataDir string) *Context {
	return &Context{
		DataDir:         dataDir,
		ImageURLPrefix:  DefaultImageURLPrefix,
		ScriptURLPrefix: DefaultScriptURLPrefix,
		VideoEmbedURL:   DefaultVideoEmbedURL,
		IDs:             NewIDSequence(),
		Tables:          TableLoaderFunc(csvdata.Load),
	}
}

// loadTable reads the CSV named by a tag's primary argument.
func (rc *Context) loadTable(name string) (*csvdata.Table, error) {
	path := filepath.Join(rc.DataDir, name)
	table, err := rc.Tables.LoadTable(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataRead, err)
	}
	return table, nil
}

// Resolver renders one tag occurrence to an HTML fragment.
type Resolver interface {
	Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(rc *Context, occ tags.Occurrence, p params.Set) (string, error)

// Resolve calls f(rc, occ, p).
func (f ResolverFunc) Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error) {
	return f(rc, occ, p)
}

// Registry maps each tag kind to its resolver.
type Registry map[tags.Kind]Resolver

// DefaultRegistry returns a Registry with the built-in resolvers.
func DefaultRegistry() Registry {
	return Registry{
		tags.KindImage:  &ImageResolver{},
		tags.KindTable:  &TableResolver{},
		tags.KindChart:  &ChartResolver{},
		tags.KindVideo:  &VideoResolver{},
		tags.KindScript: &ScriptResolver{},
	}
}

// Resolve parses the occurrence's parameters and dispatches to the
// resolver registered for its kind.
func (r Registry) Resolve(rc *Context, occ tags.Occurrence) (string, error) {
	res, ok := r[occ.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, occ.Kind)
	}
	return res.Resolve(rc, occ, params.Parse(occ.Params))
}

// Compile-time interface checks.
var (
	_ Resolver = (*ImageResolver)(nil)
	_ Resolver = (*TableResolver)(nil)
	_ Resolver = (*ChartResolver)(nil)
	_ Resolver = (*VideoResolver)(nil)
	_ Resolver = (*ScriptResolver)(nil)
)

// attr escapes s for use inside a double-quoted attribute value.
func attr(s string) string {
	return html.EscapeString(s)
}

// joinURL appends name to prefix without cleaning the path, so the
// reference stays exactly as written in the source.
func joinURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
