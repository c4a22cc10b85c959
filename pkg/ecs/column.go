package ecs

import (
	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// columnFactory is a function that creates a new abstractColumn instance.
type columnFactory func() abstractColumn

// abstractColumn is an internal interface for generic column operations.
type abstractColumn interface {
	len() int
	name() string
	extend()

	setAbstract(row int, component Component)
	getAbstract(row int) Component
	remove(row int)

	marshal(row int) (json.RawMessage, error)
}

var _ abstractColumn = &column[Component]{}

// column stores the component data of entities in an archetype. The length of the components slice
// must match the length of the entities slice in the archetype.
type column[T Component] struct {
	compName   string // The name of the component stored in this column
	components []T    // Component data, indexed by archetype row
}

// newColumn creates a new column with the specified type.
func newColumn[T Component]() column[T] {
	var zero T
	const initialCapacity = 16
	return column[T]{
		compName:   zero.Name(),
		components: make([]T, 0, initialCapacity),
	}
}

// newColumnFactory returns a function that constructs a new column of type T.
func newColumnFactory[T Component]() columnFactory {
	return func() abstractColumn {
		col := newColumn[T]()
		return &col
	}
}

func (c *column[T]) len() int {
	return len(c.components)
}

func (c *column[T]) name() string {
	return c.compName
}

// extend adds a new zero-valued row.
func (c *column[T]) extend() {
	var zero T
	c.components = append(c.components, zero)
}

// set sets the component in a given row. Prefer this over setAbstract since it avoids boxing the
// component.
func (c *column[T]) set(row int, component T) {
	assert.That(row < len(c.components), "column isn't extended when entity is created")
	c.components[row] = component
}

// setAbstract sets the component in a given row when the concrete type isn't known.
func (c *column[T]) setAbstract(row int, component Component) {
	concrete, ok := component.(T)
	assert.That(ok, "tried to set the wrong component type in column %s", c.compName)
	c.set(row, concrete)
}

// get gets the value from a given row. Expects the caller to make sure the row is inside the column.
func (c *column[T]) get(row int) T {
	assert.That(row < len(c.components), "component doesn't exist")
	return c.components[row]
}

// getAbstract gets the value from a given row as a boxed Component.
func (c *column[T]) getAbstract(row int) Component {
	return c.get(row)
}

// remove swaps the last row into the removed row and truncates.
func (c *column[T]) remove(row int) {
	assert.That(row < len(c.components), "tried to remove component that doesn't exist")

	lastIndex := len(c.components) - 1
	c.components[row] = c.components[lastIndex]
	var zero T
	c.components[lastIndex] = zero
	c.components = c.components[:lastIndex]
}

// marshal encodes a single row as JSON.
func (c *column[T]) marshal(row int) (json.RawMessage, error) {
	data, err := json.Marshal(c.get(row))
	if err != nil {
		return nil, eris.Wrapf(err, "failed to marshal component %s", c.compName)
	}
	return data, nil
}
