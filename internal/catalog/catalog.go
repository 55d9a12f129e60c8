// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/adrianoanschau/create-phobos/internal/issue"
	"github.com/adrianoanschau/create-phobos/internal/report"
	"github.com/adrianoanschau/create-phobos/pkg/cueutil"
	"github.com/adrianoanschau/create-phobos/pkg/types"
)

//go:embed meta_schema.cue
var metaSchema string

// MaxMetadataSize caps the size of a phobos.meta.json file.
const MaxMetadataSize = 64 << 10

// ErrCatalogUnreadable is wrapped by the error LoadCatalog returns when the
// catalog root cannot be listed.
var ErrCatalogUnreadable = errors.New("module catalog unreadable")

type (
	// Catalog maps module keys to descriptors. It is built once by
	// LoadCatalog and never mutated afterwards.
	Catalog struct {
		root        string
		descriptors map[string]Descriptor
	}

	// LoadOption configures LoadCatalog.
	LoadOption func(*loadOptions)

	loadOptions struct {
		logger *log.Logger
	}
)

// WithLogger sets the logger used for debug output while loading.
func WithLogger(l *log.Logger) LoadOption {
	return func(o *loadOptions) {
		o.logger = l
	}
}

// LoadCatalog reads every immediate subdirectory of root in fsys as a module.
//
// The returned report carries one OutcomeMetadataInvalid item per module whose
// metadata could not be used. The error is non-nil only when root itself
// cannot be read; it is an *issue.ActionableError wrapping ErrCatalogUnreadable.
func LoadCatalog(fsys afero.Fs, root string, opts ...LoadOption) (*Catalog, *report.Report, error) {
	o := loadOptions{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("load module catalog").
			WithResource(root).
			WithSuggestions(
				"Check that the template tree contains a modules/ directory",
				"Pass a valid template tree with --templates, or omit it to use the bundled templates",
			).
			Wrap(fmt.Errorf("%w: %w", ErrCatalogUnreadable, err)).
			BuildError()
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			keys = append(keys, entry.Name())
		}
	}

	// Metadata is parsed concurrently; results are collected in key order.
	type loaded struct {
		desc Descriptor
		item *report.Item
	}
	results := make([]loaded, len(keys))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, key := range keys {
		g.Go(func() error {
			desc, item := loadModule(fsys, key, path.Join(root, key))
			results[i] = loaded{desc: desc, item: item}
			return nil
		})
	}
	// loadModule reports every problem as an item, never as an error.
	_ = g.Wait()

	rep := &report.Report{}
	cat := &Catalog{root: root, descriptors: make(map[string]Descriptor, len(keys))}
	for i, key := range keys {
		desc, item := results[i].desc, results[i].item
		if item != nil {
			o.logger.Warn("module metadata ignored", "module", key, "error", item.Detail)
			rep.Add(*item)
		} else {
			o.logger.Debug("module loaded", "module", key, "metadata", desc.HasMetadata)
		}
		cat.descriptors[key] = desc
	}

	return cat, rep, nil
}

// loadModule builds the descriptor for one module directory. A non-nil item
// reports why the metadata was not used.
func loadModule(fsys afero.Fs, key, dir string) (Descriptor, *report.Item) {
	metaPath := path.Join(dir, MetadataFile)

	data, err := afero.ReadFile(fsys, metaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultDescriptor(key, dir), nil
	}
	if err == nil {
		var desc Descriptor
		desc, err = ParseMetadata(key, dir, data)
		if err == nil {
			return desc, nil
		}
	}

	return DefaultDescriptor(key, dir), &report.Item{
		Component: report.ComponentCatalog,
		Module:    key,
		Path:      metaPath,
		Outcome:   report.OutcomeMetadataInvalid,
		Detail:    err.Error(),
	}
}

// ParseMetadata validates data against the metadata schema and returns the
// descriptor for module key located at dir.
func ParseMetadata(key, dir string, data []byte) (Descriptor, error) {
	result, err := cueutil.ParseAndDecodeString[metaFile](metaSchema, data, "#Meta",
		cueutil.WithFilename(path.Join(dir, MetadataFile)),
		cueutil.WithMaxFileSize(MaxMetadataSize))
	if err != nil {
		return Descriptor{}, err
	}

	if ok, errs := types.DescriptionText(result.Value.Description).IsValid(); !ok {
		return Descriptor{}, errors.Join(errs...)
	}

	desc := result.Value.toDescriptor(key, dir)
	if ok, errs := desc.Composition.IsValid(); !ok {
		return Descriptor{}, errors.Join(errs...)
	}
	return desc, nil
}

// New builds a catalog from descriptors, keyed by Descriptor.Key. It is
// intended for callers that assemble modules in memory.
func New(root string, descs ...Descriptor) (*Catalog, error) {
	cat := &Catalog{root: root, descriptors: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if d.Key == "" {
			return nil, errors.New("descriptor has empty key")
		}
		if _, dup := cat.descriptors[d.Key]; dup {
			return nil, fmt.Errorf("duplicate module key %q", d.Key)
		}
		cat.descriptors[d.Key] = normalize(d, root)
	}
	return cat, nil
}

// Root returns the directory the catalog was loaded from.
func (c *Catalog) Root() string { return c.root }

// Len returns the number of modules.
func (c *Catalog) Len() int { return len(c.descriptors) }

// Keys returns all module keys sorted.
func (c *Catalog) Keys() []string {
	return slices.Sorted(maps.Keys(c.descriptors))
}

// Get returns a copy of the descriptor for key.
func (c *Catalog) Get(key string) (Descriptor, bool) {
	d, ok := c.descriptors[key]
	if !ok {
		return Descriptor{}, false
	}
	return d.Clone(), true
}

// Has reports whether key is in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.descriptors[key]
	return ok
}

// Descriptors returns copies of all descriptors in key order.
func (c *Catalog) Descriptors() []Descriptor {
	keys := c.Keys()
	out := make([]Descriptor, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.descriptors[k].Clone())
	}
	return out
}

// normalize fills the nil maps and empty fields of a hand-built descriptor
// with the defaults a loaded one would have.
func normalize(d Descriptor, root string) Descriptor {
	def := DefaultDescriptor(d.Key, path.Join(root, d.Key))
	if d.Name == "" {
		d.Name = def.Name
	}
	if d.Description == "" {
		d.Description = def.Description
	}
	if d.Dir == "" {
		d.Dir = def.Dir
	}
	if d.Composition.Role == "" {
		d.Composition.Role = RoleNone
	}
	return d.Clone()
}
