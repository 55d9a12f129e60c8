// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/afero"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/fsutil"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

// FileName is the manifest file name at the project root.
const FileName = "package.json"

const (
	SectionDependencies    Section = "dependencies"
	SectionDevDependencies Section = "devDependencies"
	SectionScripts         Section = "scripts"
)

// ErrManifest is the sentinel error wrapped by ManifestError.
var ErrManifest = errors.New("invalid manifest")

type (
	// Section names one of the mapping sections the merger owns.
	Section string

	// ManifestError is returned when the manifest is missing or is not a
	// JSON object whose sections map names to strings.
	ManifestError struct {
		Path string
		Err  error
	}

	// Manifest is a parsed package.json.
	Manifest struct {
		// order holds the top-level keys in file order.
		order    []string
		raw      map[string]json.RawMessage
		sections map[Section]map[string]string
	}
)

// Sections lists the owned sections in the order they are appended when
// absent from the base manifest.
func Sections() []Section {
	return []Section{SectionDependencies, SectionDevDependencies, SectionScripts}
}

// Error implements the error interface.
func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrManifest and the underlying cause.
func (e *ManifestError) Unwrap() []error {
	return []error{ErrManifest, e.Err}
}

// Load reads and parses the manifest at name.
func Load(fsys afero.Fs, name string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return nil, &ManifestError{Path: name, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &ManifestError{Path: name, Err: err}
	}
	return m, nil
}

// Parse parses manifest content. The top-level value must be an object.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file is empty")
		}
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	m := &Manifest{
		raw:      make(map[string]json.RawMessage),
		sections: make(map[Section]map[string]string),
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := m.raw[key]; !dup {
			m.order = append(m.order, key)
		}
		m.raw[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}

	for _, s := range Sections() {
		value, ok := m.raw[string(s)]
		if !ok || string(bytes.TrimSpace(value)) == "null" {
			continue
		}
		var entries map[string]string
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, fmt.Errorf("section %q must map names to strings: %w", s, err)
		}
		m.sections[s] = entries
	}

	return m, nil
}

// Merge folds the sections of each descriptor into the manifest in order;
// a later descriptor overwrites an earlier entry with the same name. Every
// owned section exists afterwards.
func (m *Manifest) Merge(descs ...catalog.Descriptor) *report.Report {
	m.ensureSections()

	rep := &report.Report{}
	for _, d := range descs {
		n := len(d.Dependencies) + len(d.DevDependencies) + len(d.Scripts)
		maps.Copy(m.sections[SectionDependencies], d.Dependencies)
		maps.Copy(m.sections[SectionDevDependencies], d.DevDependencies)
		maps.Copy(m.sections[SectionScripts], d.Scripts)
		if n == 0 {
			continue
		}
		rep.Add(report.Item{
			Component: report.ComponentManifest,
			Module:    d.Key,
			Path:      FileName,
			Outcome:   report.OutcomeApplied,
			Detail: fmt.Sprintf("%d dependencies, %d devDependencies, %d scripts",
				len(d.Dependencies), len(d.DevDependencies), len(d.Scripts)),
		})
	}
	return rep
}

// Section returns a copy of section s. Absent sections yield an empty map.
func (m *Manifest) Section(s Section) map[string]string {
	out := maps.Clone(m.sections[s])
	if out == nil {
		out = map[string]string{}
	}
	return out
}

// Field returns the raw JSON of a top-level field.
func (m *Manifest) Field(key string) (json.RawMessage, bool) {
	v, ok := m.raw[key]
	return slices.Clone(v), ok
}

// SetField sets a top-level field that is not one of the owned sections.
// A new field is appended after the existing ones.
func (m *Manifest) SetField(key string, value any) error {
	if slices.Contains(Sections(), Section(key)) {
		return fmt.Errorf("field %q is a merged section", key)
	}
	var buf bytes.Buffer
	if err := encode(&buf, value, ""); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	if _, ok := m.raw[key]; !ok {
		m.order = append(m.order, key)
	}
	m.raw[key] = json.RawMessage(buf.Bytes())
	return nil
}

// Keys returns the top-level keys in output order.
func (m *Manifest) Keys() []string {
	keys := slices.Clone(m.order)
	for _, s := range Sections() {
		if _, ok := m.sections[s]; ok && !slices.Contains(keys, string(s)) {
			keys = append(keys, string(s))
		}
	}
	return keys
}

// Marshal renders the manifest as two-space indented JSON with a trailing
// newline. Section entries are sorted by name.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	keys := m.Keys()
	if len(keys) == 0 {
		return []byte("{}\n"), nil
	}

	buf.WriteString("{\n")
	for i, key := range keys {
		buf.WriteString("  ")
		if err := encode(&buf, key, ""); err != nil {
			return nil, err
		}
		buf.WriteString(": ")

		if entries, ok := m.sections[Section(key)]; ok {
			if err := encode(&buf, entries, "  "); err != nil {
				return nil, fmt.Errorf("section %q: %w", key, err)
			}
		} else if err := json.Indent(&buf, m.raw[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}

		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Save writes the manifest to name atomically.
func (m *Manifest) Save(fsys afero.Fs, name string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(fsys, name, data, fsutil.FilePerm)
}

func (m *Manifest) ensureSections() {
	for _, s := range Sections() {
		if m.sections[s] == nil {
			m.sections[s] = map[string]string{}
		}
	}
}

// encode writes v without HTML escaping, so scripts such as "a && b" stay
// readable.
func encode(buf *bytes.Buffer, v any, prefix string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
