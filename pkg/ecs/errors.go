package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when attempting to operate on a non-existent entity.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrComponentNotFound is returned when an entity doesn't contain the requested component or
	// the component type was never registered.
	ErrComponentNotFound = eris.New("component not found")

	// ErrWorldLocked is returned when a structural change (adding or removing a component, creating
	// or destroying an entity) is attempted while a search is iterating. Use a Buffer instead.
	ErrWorldLocked = eris.New("structural change while iterating, use a buffer")

	// ErrResourceNotFound is returned when a system declares a resource that was never added.
	ErrResourceNotFound = eris.New("resource not found")

	// ErrInvalidSearch is returned when search parameters or the where clause can't be evaluated.
	ErrInvalidSearch = eris.New("invalid search")
)
