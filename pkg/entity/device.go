package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// DefaultPairingTimeout applies when the schema has no pairing_mode_timeout.
const DefaultPairingTimeout = 300 * time.Second

// Build errors.
var (
	ErrNilConfig         = errors.New("nil configuration")
	ErrUnknownOptionList = errors.New("unknown option list")
)

// Trigger binds a list of automation actions to a runtime event.
type Trigger struct {
	Key     string
	Event   string
	Actions []string
}

// DeviceNode is the parent lock device. It exclusively owns its entity
// nodes and its resolved configuration.
type DeviceNode struct {
	config   *config.ResolvedConfig
	entities []*EntityNode
	index    map[string]*EntityNode
	triggers []Trigger
}

// Build instantiates one EntityNode per entity slot present in cfg, in
// schema order. Absent slots produce no node. On error no device is
// returned.
func Build(cfg *config.ResolvedConfig) (*DeviceNode, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	reg := cfg.Registry()

	dev := &DeviceNode{
		config: cfg,
		index:  make(map[string]*EntityNode),
	}

	for _, f := range reg.Fields() {
		switch f.Kind {
		case schema.KindEntityRef:
			ref, ok := cfg.Entity(f.Key)
			if !ok {
				continue
			}
			opts, err := nodeOptions(reg, f, ref)
			if err != nil {
				return nil, err
			}
			node := &EntityNode{
				kind:  f.Entity.Kind,
				key:   f.Key,
				owner: dev,
				opts:  opts,
			}
			dev.entities = append(dev.entities, node)
			dev.index[f.Key] = node

		case schema.KindTrigger:
			if !cfg.Has(f.Key) {
				continue
			}
			dev.triggers = append(dev.triggers, Trigger{
				Key:     f.Key,
				Event:   f.Event,
				Actions: cfg.Trigger(f.Key),
			})
		}
	}

	return dev, nil
}

func nodeOptions(reg *schema.Registry, f schema.Field, ref config.EntityRef) (Options, error) {
	meta := f.Entity
	opts := Options{
		Name:              ref.Name,
		ID:                ref.ID,
		DeviceClass:       meta.DeviceClass,
		Category:          meta.Category,
		Icon:              meta.Icon,
		Unit:              meta.Unit,
		Internal:          ref.Internal,
		DisabledByDefault: ref.DisabledByDefault,
	}
	if opts.Name == "" {
		opts.Name = DefaultName(f.Key)
	}
	if ref.Icon != "" {
		opts.Icon = ref.Icon
	}

	switch meta.Kind {
	case schema.EntityNumber:
		if meta.Number != nil {
			opts.Min = meta.Number.Min
			opts.Max = meta.Number.Max
			opts.Step = meta.Number.Step
		}
	case schema.EntitySelect:
		choices := reg.Options(meta.OptionList)
		if choices == nil {
			return Options{}, fmt.Errorf("%s: %w %q", f.Key, ErrUnknownOptionList, meta.OptionList)
		}
		opts.Choices = choices
	}
	return opts, nil
}

// DefaultName derives an entity name from its slot key:
// "battery_level" becomes "Battery level".
func DefaultName(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Config returns the resolved configuration the device was built from.
func (d *DeviceNode) Config() *config.ResolvedConfig { return d.config }

// Len returns the number of entity nodes.
func (d *DeviceNode) Len() int { return len(d.entities) }

// Entities returns the nodes in schema order.
func (d *DeviceNode) Entities() []*EntityNode {
	return slices.Clone(d.entities)
}

// Entity returns the node built from slot key.
func (d *DeviceNode) Entity(key string) (*EntityNode, bool) {
	n, ok := d.index[key]
	return n, ok
}

// EntitiesByKind returns the nodes of one platform in schema order.
func (d *DeviceNode) EntitiesByKind(kind schema.EntityKind) []*EntityNode {
	var out []*EntityNode
	for _, n := range d.entities {
		if n.kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Triggers returns the automation bindings in schema order.
func (d *DeviceNode) Triggers() []Trigger {
	out := make([]Trigger, len(d.triggers))
	for i, t := range d.triggers {
		t.Actions = slices.Clone(t.Actions)
		out[i] = t
	}
	return out
}

// PairingTimeout returns the configured pairing-mode timeout.
func (d *DeviceNode) PairingTimeout() time.Duration {
	if t := d.config.Duration(config.KeyPairingModeTimeout); t > 0 {
		return t
	}
	return DefaultPairingTimeout
}

// SecurityPin returns the configured PIN; 0 means not set.
func (d *DeviceNode) SecurityPin() uint16 {
	return uint16(d.config.UInt(config.KeySecurityPin))
}

// Equal reports whether two devices have the same node set with the same
// per-node options, the same triggers and equal configurations. Runtime
// state is not compared.
func (d *DeviceNode) Equal(other *DeviceNode) bool {
	if d == nil || other == nil {
		return d == other
	}
	if !d.config.Equal(other.config) || len(d.entities) != len(other.entities) {
		return false
	}
	for i, n := range d.entities {
		o := other.entities[i]
		if n.kind != o.kind || n.key != o.key || !n.opts.equal(o.opts) {
			return false
		}
	}
	if len(d.triggers) != len(other.triggers) {
		return false
	}
	for i, t := range d.triggers {
		o := other.triggers[i]
		if t.Key != o.Key || t.Event != o.Event || !slices.Equal(t.Actions, o.Actions) {
			return false
		}
	}
	return true
}
