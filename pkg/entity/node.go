package entity

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// Entity state errors.
var (
	ErrInvalidState  = errors.New("invalid entity state")
	ErrInvalidOption = errors.New("option not available")
	ErrOutOfRange    = errors.New("value out of range")
	ErrStateless     = errors.New("entity has no state")
)

// Options is the static, per-node metadata derived from the schema slot and
// the user's entity sub-configuration.
type Options struct {
	Name              string
	ID                string
	DeviceClass       string
	Category          schema.Category
	Icon              string
	Unit              string
	Internal          bool
	DisabledByDefault bool

	// Number entities.
	Min  float64
	Max  float64
	Step float64

	// Choices is the ordered option list of a select entity.
	Choices []string
}

func (o Options) clone() Options {
	o.Choices = slices.Clone(o.Choices)
	return o
}

func (o Options) equal(other Options) bool {
	return o.Name == other.Name &&
		o.ID == other.ID &&
		o.DeviceClass == other.DeviceClass &&
		o.Category == other.Category &&
		o.Icon == other.Icon &&
		o.Unit == other.Unit &&
		o.Internal == other.Internal &&
		o.DisabledByDefault == other.DisabledByDefault &&
		o.Min == other.Min &&
		o.Max == other.Max &&
		o.Step == other.Step &&
		slices.Equal(o.Choices, other.Choices)
}

// EntityNode is one live sub-entity of a device. Everything except its
// runtime state is fixed at build time.
type EntityNode struct {
	kind  schema.EntityKind
	key   string
	owner *DeviceNode
	opts  Options

	mu       sync.RWMutex
	state    any
	hasState bool
}

// Kind returns the entity platform.
func (n *EntityNode) Kind() schema.EntityKind { return n.kind }

// Key returns the slot key the node was built from.
func (n *EntityNode) Key() string { return n.key }

// Owner returns the device that owns the node.
func (n *EntityNode) Owner() *DeviceNode { return n.owner }

// Options returns a copy of the node's metadata.
func (n *EntityNode) Options() Options { return n.opts.clone() }

// State returns the last published state, if any.
func (n *EntityNode) State() (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state, n.hasState
}

// SetState publishes a new runtime state. The value must match the kind:
// bool for binary sensors and switches, float64 for sensors and numbers,
// string for text sensors and selects. Buttons carry no state.
func (n *EntityNode) SetState(v any) error {
	normalized, err := n.check(v)
	if err != nil {
		return fmt.Errorf("%s: %w", n.key, err)
	}

	n.mu.Lock()
	n.state = normalized
	n.hasState = true
	n.mu.Unlock()
	return nil
}

// Validate reports whether v would be accepted by SetState, without
// publishing it.
func (n *EntityNode) Validate(v any) error {
	if _, err := n.check(v); err != nil {
		return fmt.Errorf("%s: %w", n.key, err)
	}
	return nil
}

func (n *EntityNode) check(v any) (any, error) {
	switch n.kind {
	case schema.EntityBinarySensor, schema.EntitySwitch:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: want bool, got %T", ErrInvalidState, v)
		}
		return b, nil

	case schema.EntitySensor:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: want number, got %T", ErrInvalidState, v)
		}
		return f, nil

	case schema.EntityNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: want number, got %T", ErrInvalidState, v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < n.opts.Min || f > n.opts.Max {
			return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, f, n.opts.Min, n.opts.Max)
		}
		if n.opts.Step > 0 {
			steps := (f - n.opts.Min) / n.opts.Step
			if math.Abs(steps-math.Round(steps)) > 1e-9 {
				return nil, fmt.Errorf("%w: %v is not a multiple of step %v", ErrOutOfRange, f, n.opts.Step)
			}
		}
		return f, nil

	case schema.EntityTextSensor:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrInvalidState, v)
		}
		return s, nil

	case schema.EntitySelect:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrInvalidState, v)
		}
		if !slices.Contains(n.opts.Choices, s) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOption, s)
		}
		return s, nil
	}
	return nil, ErrStateless
}

// Index returns the position of option in a select node's choices, or -1.
func (n *EntityNode) Index(option string) int {
	return slices.Index(n.opts.Choices, option)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
