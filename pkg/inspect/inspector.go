package inspect

import (
	"fmt"

	"github.com/nuki-esphome/nuki-go/pkg/entity"
)

// Inspector resolves paths against one device.
type Inspector struct {
	device *entity.DeviceNode
}

// NewInspector creates an inspector for dev.
func NewInspector(dev *entity.DeviceNode) *Inspector {
	return &Inspector{device: dev}
}

// Resolve returns the nodes selected by path in schema order.
func (i *Inspector) Resolve(path *Path) ([]*entity.EntityNode, error) {
	if !path.IsPartial() {
		n, ok := i.device.Entity(path.Key)
		if !ok || (path.HasKind && n.Kind() != path.Kind) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return []*entity.EntityNode{n}, nil
	}
	if path.HasKind {
		return i.device.EntitiesByKind(path.Kind), nil
	}
	return i.device.Entities(), nil
}

// Read returns the state of the node at a full path.
func (i *Inspector) Read(path *Path) (any, bool, error) {
	n, err := i.one(path)
	if err != nil {
		return nil, false, err
	}
	v, ok := n.State()
	return v, ok, nil
}

// Write publishes a state on the node at a full path.
func (i *Inspector) Write(path *Path, v any) error {
	n, err := i.one(path)
	if err != nil {
		return err
	}
	return n.SetState(v)
}

func (i *Inspector) one(path *Path) (*entity.EntityNode, error) {
	if path.IsPartial() {
		return nil, fmt.Errorf("%w: %s selects more than one entity", ErrInvalidPath, path)
	}
	nodes, err := i.Resolve(path)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}
