package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nuki-esphome/nuki-go/pkg/schema"
	"gopkg.in/yaml.v3"
)

// DeviceSection is the top-level key holding the lock's configuration.
const DeviceSection = "nuki_lock"

// ErrNoDeviceSection is returned when a document has no nuki_lock section.
var ErrNoDeviceSection = errors.New("document has no " + DeviceSection + " section")

// Document is a parsed system configuration document: every top-level
// section in source order, plus line numbers for the device section's keys.
type Document struct {
	sections map[string]any
	order    []string
	lines    map[string]int

	// SchemaVersion is taken from the device section's "schema" key, if any.
	SchemaVersion string
}

// ParseDocument parses a YAML system document.
func ParseDocument(data []byte) (*Document, error) {
	var sections map[string]any
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if sections == nil {
		sections = make(map[string]any)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML node parse error: %w", err)
	}

	doc := &Document{
		sections: sections,
		lines:    make(map[string]int),
	}

	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		top := root.Content[0]
		if top.Kind == yaml.MappingNode {
			for i := 0; i < len(top.Content)-1; i += 2 {
				keyNode := top.Content[i]
				valueNode := top.Content[i+1]
				doc.order = append(doc.order, keyNode.Value)
				if keyNode.Value != DeviceSection {
					continue
				}
				doc.lines[""] = keyNode.Line
				if valueNode.Kind == yaml.MappingNode {
					for j := 0; j < len(valueNode.Content)-1; j += 2 {
						item := valueNode.Content[j]
						doc.lines[item.Value] = item.Line
					}
				}
			}
		}
	}

	if dev, ok := sections[DeviceSection].(map[string]any); ok {
		if v, ok := dev["schema"].(string); ok {
			doc.SchemaVersion = v
		}
	}

	return doc, nil
}

// ParseFile reads and parses a YAML system document from path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// Sections returns the top-level section names in source order.
func (d *Document) Sections() []string {
	return append([]string(nil), d.order...)
}

// Has reports whether a top-level section is present.
func (d *Document) Has(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Section returns a top-level section as a mapping. Sections written as a
// bare key (e.g. "psram:") yield an empty mapping.
func (d *Document) Section(name string) (map[string]any, bool) {
	v, ok := d.sections[name]
	if !ok {
		return nil, false
	}
	m, _ := v.(map[string]any)
	if m == nil {
		m = map[string]any{}
	}
	return m, true
}

// Device returns the raw nuki_lock section without the "schema" selector key.
func (d *Document) Device() (map[string]any, error) {
	raw, ok := d.Section(DeviceSection)
	if !ok {
		return nil, ErrNoDeviceSection
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "schema" {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// Line returns the source line of a device key, or 0.
func (d *Document) Line(key string) int {
	if i := strings.IndexAny(key, ".["); i >= 0 {
		key = key[:i]
	}
	return d.lines[key]
}

// ValidateDevice validates the document's device section against reg and
// annotates field errors with source lines.
func (d *Document) ValidateDevice(reg *schema.Registry) (*ResolvedConfig, error) {
	raw, err := d.Device()
	if err != nil {
		return nil, err
	}

	cfg, err := Validate(raw, reg)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				fe.Line = d.Line(fe.Key)
				if fe.Line == 0 {
					// Missing keys have no line of their own; point at the section.
					fe.Line = d.lines[""]
				}
			}
		}
		return nil, err
	}
	return cfg, nil
}
