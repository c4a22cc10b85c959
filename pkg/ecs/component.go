package ecs

import (
	"reflect"

	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/rotisserie/eris"
)

// Component is the interface that all components must implement.
// Components are pure data containers that can be attached to entities.
type Component interface { //nolint:iface // We may add more methods in the future.
	// Name returns a unique string identifier for the component type.
	// This should be consistent across program executions.
	Name() string
}

// componentID is a unique identifier for a component type.
type componentID = uint32

// componentManager manages component type registration and lookup.
type componentManager struct {
	nextID    componentID             // The next available component ID
	catalog   map[string]componentID  // Component name -> component ID
	names     []string                // Component ID -> component name
	factories []columnFactory         // Component ID -> column factory
	types     map[string]reflect.Type // Component name -> Go type, used for schemas
}

func newComponentManager() componentManager {
	return componentManager{
		nextID:    0,
		catalog:   make(map[string]componentID),
		names:     make([]string, 0),
		factories: make([]columnFactory, 0),
		types:     make(map[string]reflect.Type),
	}
}

// register registers a new component type and returns its ID.
// If the component is already registered, no-op.
func (cm *componentManager) register(name string, typ reflect.Type, factory columnFactory) (componentID, error) {
	if name == "" {
		return 0, eris.New("component name cannot be empty")
	}

	if cid, exists := cm.catalog[name]; exists {
		if cm.types[name] != typ {
			return 0, eris.Errorf("component name %s is used by both %s and %s", name, cm.types[name], typ)
		}
		return cid, nil
	}

	cm.catalog[name] = cm.nextID
	cm.names = append(cm.names, name)
	cm.factories = append(cm.factories, factory)
	cm.types[name] = typ
	cm.nextID++
	assert.That(int(cm.nextID) == len(cm.factories), "component id doesn't match number of components")

	return cm.nextID - 1, nil
}

// getID returns a component's ID given a name.
func (cm *componentManager) getID(name string) (componentID, error) {
	id, exists := cm.catalog[name]
	if !exists {
		return 0, eris.Wrapf(ErrComponentNotFound, "component %s", name)
	}
	return id, nil
}

// name returns a registered component's name.
func (cm *componentManager) name(id componentID) string {
	assert.That(int(id) < len(cm.names), "component %d isn't registered", id)
	return cm.names[id]
}

// registerComponent registers T with the world state and returns its ID.
func registerComponent[T Component](ws *WorldState) (componentID, error) {
	var zero T
	return ws.components.register(zero.Name(), reflect.TypeOf(zero), newColumnFactory[T]())
}
