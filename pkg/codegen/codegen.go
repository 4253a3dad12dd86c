package codegen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// FileName is the name of the generated unit.
const FileName = "nuki_lock.cpp"

// ComponentVar is the C++ variable of the lock component.
const ComponentVar = "nuki_lock_component"

//go:embed templates/*.tmpl
var templateFS embed.FS

var unit = template.Must(
	template.New("nuki_lock.cpp.tmpl").
		Funcs(template.FuncMap{"cpp": cppString}).
		ParseFS(templateFS, "templates/nuki_lock.cpp.tmpl"),
)

// ErrNilDevice is returned by Generate for a nil device.
var ErrNilDevice = errors.New("codegen: nil device")

// Entity is the wiring of one entity node.
type Entity struct {
	Var      string
	Type     string
	Register string
	Setter   string
	// Parented entities call back into the component.
	Parented bool
	// Calls are the configuration calls on the entity, in order.
	Calls []string
}

// Setting is one scalar setter call on the component.
type Setting struct {
	Setter string
	Value  string
}

// Trigger is one automation binding.
type Trigger struct {
	Var     string
	Type    string
	Actions []string
}

// Unit is the template input.
type Unit struct {
	Header    string
	Component string
	Entities  []Entity
	Settings  []Setting
	Triggers  []Trigger
}

// Options control generation.
type Options struct {
	// Header is emitted as a comment on the first line.
	Header string
}

// Generate renders the wiring unit for dev.
func Generate(dev *entity.DeviceNode, opts Options) ([]byte, error) {
	u, err := Build(dev, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := unit.Execute(&buf, u); err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	return buf.Bytes(), nil
}

// Build derives the template input from dev.
func Build(dev *entity.DeviceNode, opts Options) (*Unit, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	u := &Unit{Header: opts.Header, Component: ComponentVar}

	for _, n := range dev.Entities() {
		u.Entities = append(u.Entities, entityWiring(n))
	}

	cfg := dev.Config()
	for _, f := range cfg.Registry().Fields() {
		switch f.Kind {
		case schema.KindEntityRef, schema.KindTrigger:
			continue
		}
		v, ok := cfg.Value(f.Key)
		if !ok {
			continue
		}
		lit, emit := literal(v)
		if !emit || (f.Key == config.KeySecurityPin && lit == "0") {
			continue
		}
		u.Settings = append(u.Settings, Setting{Setter: "set_" + f.Key, Value: lit})
	}

	for i, t := range dev.Triggers() {
		u.Triggers = append(u.Triggers, Trigger{
			Var:     fmt.Sprintf("trigger_%d", i),
			Type:    "nuki_lock::" + camel(strings.TrimPrefix(strings.TrimSuffix(t.Key, "_action"), "on_")) + "Trigger",
			Actions: t.Actions,
		})
	}
	return u, nil
}

var platforms = map[schema.EntityKind]struct{ typ, register string }{
	schema.EntitySensor:       {"sensor::Sensor", "register_sensor"},
	schema.EntityBinarySensor: {"binary_sensor::BinarySensor", "register_binary_sensor"},
	schema.EntityTextSensor:   {"text_sensor::TextSensor", "register_text_sensor"},
	schema.EntitySwitch:       {"Switch", "register_switch"},
	schema.EntityNumber:       {"Number", "register_number"},
	schema.EntitySelect:       {"Select", "register_select"},
	schema.EntityButton:       {"Button", "register_button"},
}

func entityWiring(n *entity.EntityNode) Entity {
	opts := n.Options()
	p := platforms[n.Kind()]
	e := Entity{
		Var:      config.DefaultEntityID(n.Key(), n.Kind()),
		Type:     p.typ,
		Register: p.register,
		Setter:   "set_" + n.Key(),
	}
	switch n.Kind() {
	case schema.EntitySwitch, schema.EntityNumber, schema.EntitySelect, schema.EntityButton:
		// Controls are component-specific classes.
		e.Type = "nuki_lock::NukiLock" + camel(n.Key()) + p.typ
		e.Setter += "_" + n.Kind().String()
		e.Parented = true
	}
	if opts.ID != "" {
		e.Var = opts.ID
	}

	e.Calls = append(e.Calls, "set_name("+cppString(opts.Name)+")")
	if opts.DeviceClass != "" {
		e.Calls = append(e.Calls, "set_device_class("+cppString(opts.DeviceClass)+")")
	}
	switch opts.Category {
	case schema.CategoryConfig:
		e.Calls = append(e.Calls, "set_entity_category(ENTITY_CATEGORY_CONFIG)")
	case schema.CategoryDiagnostic:
		e.Calls = append(e.Calls, "set_entity_category(ENTITY_CATEGORY_DIAGNOSTIC)")
	}
	if opts.Icon != "" {
		e.Calls = append(e.Calls, "set_icon("+cppString(opts.Icon)+")")
	}
	if opts.Unit != "" {
		e.Calls = append(e.Calls, "set_unit_of_measurement("+cppString(opts.Unit)+")")
	}
	if opts.Internal {
		e.Calls = append(e.Calls, "set_internal(true)")
	}
	if opts.DisabledByDefault {
		e.Calls = append(e.Calls, "set_disabled_by_default(true)")
	}
	switch n.Kind() {
	case schema.EntityNumber:
		e.Calls = append(e.Calls,
			"traits.set_min_value("+formatFloat(opts.Min)+")",
			"traits.set_max_value("+formatFloat(opts.Max)+")",
			"traits.set_step("+formatFloat(opts.Step)+")",
		)
	case schema.EntitySelect:
		quoted := make([]string, len(opts.Choices))
		for i, c := range opts.Choices {
			quoted[i] = cppString(c)
		}
		e.Calls = append(e.Calls, "traits.set_options({"+strings.Join(quoted, ", ")+"})")
	}
	return e
}

// literal renders a resolved scalar as a C++ literal.
func literal(v any) (string, bool) {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case string:
		return cppString(x), true
	case time.Duration:
		return strconv.FormatInt(x.Milliseconds(), 10), true
	}
	return "", false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cppString quotes s as a C++ string literal.
func cppString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// camel turns "pairing_mode" into "PairingMode".
func camel(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}
