// Package preset stores named parameter settings as YAML documents.
//
// A preset file looks like:
//
//	name: wide-top
//	params:
//	  High: 1.6
//	  FreqMH: 5000
//
// Parameters that a preset does not mention keep their current value when the
// preset is applied.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tphakala/go-audio-widener/internal/param"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPreset is returned for documents that do not decode.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrUnknownPreset is returned when a name matches no built-in preset.
	ErrUnknownPreset = errors.New("unknown preset")
)

// Preset is a named set of plain parameter values keyed by persisted name.
type Preset struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

// Parse decodes a YAML preset. Unknown top-level fields are rejected.
func Parse(data []byte) (*Preset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Preset
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidPreset)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a preset file. A preset without a name takes the
// file's base name.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	var presets []*Preset
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		p, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// Marshal encodes p as YAML.
func (p *Preset) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode preset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode preset: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes p to path.
func (p *Preset) Save(path string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preset: %w", err)
	}
	return nil
}

// Apply stores the preset's values into set. Nothing is written if any name
// is unknown. Values are clamped by the set.
func (p *Preset) Apply(set *param.Set) error {
	if err := p.validate(); err != nil {
		return err
	}
	for name, v := range p.Params {
		if err := set.SetByName(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the preset overlaid on base.
func (p *Preset) Values(base param.Values) (param.Values, error) {
	if err := p.validate(); err != nil {
		return base, err
	}
	for name, v := range p.Params {
		spec, _ := param.Lookup(name)
		base = base.With(spec.ID, spec.Clamp(v))
	}
	return base, nil
}

// Capture snapshots every parameter in set into a new preset.
func Capture(name string, set *param.Set) *Preset {
	return FromValues(name, set.Load())
}

// FromValues builds a preset holding all six values.
func FromValues(name string, v param.Values) *Preset {
	p := &Preset{Name: name, Params: make(map[string]float64, param.Count)}
	for _, spec := range param.Specs() {
		p.Params[spec.Name] = v.Get(spec.ID)
	}
	return p
}

func (p *Preset) validate() error {
	for name := range p.Params {
		if _, err := param.Lookup(name); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return nil
}

// Names returns the built-in preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Builtin returns a copy of the named built-in preset.
func Builtin(name string) (*Preset, error) {
	params, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	p := &Preset{Name: name, Params: make(map[string]float64, len(params))}
	for k, v := range params {
		p.Params[k] = v
	}
	return p, nil
}

// Resolve returns the built-in preset called ref, or loads ref as a file.
func Resolve(ref string) (*Preset, error) {
	if _, ok := builtins[ref]; ok {
		return Builtin(ref)
	}
	return Load(ref)
}
