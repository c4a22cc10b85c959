package ecs

import (
	"iter"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/argus-labs/blobber/pkg/assert"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// systemStateField defines the interface for system state initialization. All system state fields
// must implement this interface.
type systemStateField interface {
	init(w *World, system string) (fieldAccess, error)
}

var _ systemStateField = &BaseSystemState{}
var _ systemStateField = &search[any]{}
var _ systemStateField = &Contains[any]{}
var _ systemStateField = &Exact[any]{}
var _ systemStateField = &WithResource[any]{}

// fieldAccess is what a system state field declares it touches.
type fieldAccess struct {
	reads     bitmap.Bitmap
	writes    bitmap.Bitmap
	excludes  bitmap.Bitmap
	resources []reflect.Type
}

func (a *fieldAccess) merge(other fieldAccess) {
	a.reads.Or(other.reads)
	a.writes.Or(other.writes)
	a.excludes.Or(other.excludes)
	a.resources = append(a.resources, other.resources...)
}

// -------------------------------------------------------------------------------------------------
// Base System State Field
// -------------------------------------------------------------------------------------------------

// BaseSystemState gives a system access to its logger, the mutation buffer and the tick counter.
// Embed it in your system state types.
//
// Example:
//
//	type DebugSystemState struct {
//	    ecs.BaseSystemState
//	    // Other fields...
//	}
//
//	func DebugSystem(state *DebugSystemState) error {
//	    state.Logger().Debug().Uint64("tick", state.Tick()).Msg("tick")
//	    return nil
//	}
type BaseSystemState struct {
	world  *World
	logger zerolog.Logger
}

func (b *BaseSystemState) init(w *World, system string) (fieldAccess, error) {
	b.world = w
	b.logger = w.logger.With().Str("system", system).Logger()
	return fieldAccess{}, nil
}

// Logger returns the system's logger.
func (b *BaseSystemState) Logger() *zerolog.Logger {
	return &b.logger
}

// Buffer returns the world's mutation buffer. Changes recorded in it are applied after the system
// returns.
func (b *BaseSystemState) Buffer() *Buffer {
	return &b.world.buffer
}

// Tick returns the number of completed ticks.
func (b *BaseSystemState) Tick() uint64 {
	return b.world.tick
}

// UnsafeWorldState returns the world's underlying state. Structural changes made through it while
// a search is iterating fail with ErrWorldLocked.
func (b *BaseSystemState) UnsafeWorldState() *WorldState {
	return b.world.state
}

// -------------------------------------------------------------------------------------------------
// Resource Fields
// -------------------------------------------------------------------------------------------------

// WithResource gives a system access to a singleton added with AddResource. Registering a system
// fails if the resource doesn't exist yet.
//
// Example:
//
//	type ColliderSystemState struct {
//	    ecs.BaseSystemState
//	    Map ecs.WithResource[tilemap.TileMap[uuid.UUID]]
//	}
type WithResource[T any] struct {
	value *T
}

func (r *WithResource[T]) init(w *World, _ string) (fieldAccess, error) {
	value, err := GetResource[T](w)
	if err != nil {
		return fieldAccess{}, err
	}
	r.value = value
	return fieldAccess{resources: []reflect.Type{reflect.TypeFor[T]()}}, nil
}

// Get returns the resource.
func (r *WithResource[T]) Get() *T {
	return r.value
}

// -------------------------------------------------------------------------------------------------
// Component Search Fields
// -------------------------------------------------------------------------------------------------

// search provides type-safe component queries. It uses reflection during initialization to figure
// out which components to include or exclude. T must be a struct composed only of Ref, Read and
// Without fields, e.g.:
//
//	type Mover struct {
//	    Position    ecs.Ref[Position]
//	    Intent      ecs.Read[Intent]
//	    NoAnimation ecs.Without[Animation]
//	}
//
// search is the base implementation for Contains and Exact. Every component type used in T is
// registered when the system is registered.
type search[T any] struct {
	world    *World        // Reference to the world
	include  bitmap.Bitmap // Components an entity must have
	exclude  bitmap.Bitmap // Components an entity must not have
	result   T             // Reusable instance of the result type
	fields   []searchField // Cached references to result's fields, attached during iteration
	resultOK bool
}

func (s *search[T]) init(w *World, _ string) (fieldAccess, error) {
	resultType := reflect.TypeFor[T]()
	if resultType.Kind() != reflect.Struct {
		return fieldAccess{}, eris.Errorf("search type must be a struct, got %s", resultType)
	}
	resultValue := reflect.ValueOf(&s.result).Elem()

	s.world = w
	s.fields = make([]searchField, 0, resultType.NumField())

	var access fieldAccess
	for i := range resultType.NumField() {
		field := resultType.Field(i)
		if !field.IsExported() {
			return fieldAccess{}, eris.Errorf("search field %s must be exported", field.Name)
		}
		fieldRef, ok := resultValue.Field(i).Addr().Interface().(searchField)
		if !ok {
			return fieldAccess{}, eris.Errorf(
				"field %s must be of type Ref, Read or Without, got %s", field.Name, field.Type)
		}

		cid, mode, err := fieldRef.register(w)
		if err != nil {
			return fieldAccess{}, eris.Wrapf(err, "failed to register component of field %s", field.Name)
		}

		switch mode {
		case accessWrite:
			s.include.Set(cid)
			access.writes.Set(cid)
		case accessRead:
			s.include.Set(cid)
			access.reads.Set(cid)
		case accessExclude:
			s.exclude.Set(cid)
			access.excludes.Set(cid)
			continue
		}
		s.fields = append(s.fields, fieldRef)
	}

	if hasOverlap(s.include, s.exclude) {
		return fieldAccess{}, eris.New("search cannot both require and exclude the same component")
	}
	s.resultOK = true
	return access, nil
}

// Create creates a new entity holding the search's included components, zero-valued, and returns
// the handles to set them. Fails with ErrWorldLocked while a search is iterating.
//
// Example:
//
//	eid, player, err := state.Players.Create()
//	if err != nil {
//	    return err
//	}
//	player.Position.Set(start)
func (s *search[T]) Create() (EntityID, T, error) {
	ws := s.world.state
	eid, err := ws.newEntityWithArchetype(s.include)
	if err != nil {
		var zero T
		return 0, zero, err
	}

	for i := range s.fields {
		s.fields[i].attach(ws, eid)
	}
	return eid, s.result, nil
}

// GetByID returns the handles for eid if the entity exists and matches the search's include and
// exclude sets.
func (s *search[T]) GetByID(eid EntityID) (T, bool) {
	ws := s.world.state
	arch, err := ws.archetypeOf(eid)
	if err != nil || !arch.contains(s.include) || !arch.excludes(s.exclude) {
		var zero T
		return zero, false
	}

	for i := range s.fields {
		s.fields[i].attach(ws, eid)
	}
	return s.result, true
}

// iter returns an iterator over all entities in the given archetypes. Structural changes are
// rejected while the iterator runs.
func (s *search[T]) iter(archetypeIDs []archetypeID) iter.Seq2[EntityID, T] {
	assert.That(s.resultOK, "search used before its system was registered")
	ws := s.world.state
	return func(yield func(EntityID, T) bool) {
		ws.iterating++
		defer func() { ws.iterating-- }()

		for _, id := range archetypeIDs {
			arch := &ws.archetypes[id]
			for _, eid := range arch.entities {
				for i := range s.fields {
					s.fields[i].attach(ws, eid)
				}

				if !yield(eid, s.result) {
					return
				}
			}
		}
	}
}

// Contains provides a search that matches entities holding all of the Ref and Read components,
// none of the Without components, and any other components.
//
// Example:
//
//	type MovementSystemState struct {
//	    ecs.BaseSystemState
//	    Movers ecs.Contains[struct {
//	        Position ecs.Ref[Position]
//	        Velocity ecs.Read[Velocity]
//	    }]
//	}
//
//	func MovementSystem(state *MovementSystemState) error {
//	    for _, mover := range state.Movers.Iter() {
//	        pos, vel := mover.Position.Get(), mover.Velocity.Get()
//	        mover.Position.Set(Position{X: pos.X + vel.X, Y: pos.Y + vel.Y})
//	    }
//	    return nil
//	}
type Contains[T any] struct{ search[T] }

// Iter returns an iterator over entities and their components that match the Contains search.
func (c *Contains[T]) Iter() iter.Seq2[EntityID, T] {
	return c.iter(c.world.state.archContains(c.include, c.exclude))
}

// Exact provides a search that matches entities holding exactly the Ref and Read components.
//
// Example:
//
//	type PlayerSystemState struct {
//	    ecs.BaseSystemState
//	    Players ecs.Exact[struct {
//	        Tag    ecs.Ref[PlayerTag]
//	        Health ecs.Ref[Health]
//	    }]
//	}
type Exact[T any] struct{ search[T] }

// Iter returns an iterator over entities and their components that match the Exact search.
func (c *Exact[T]) Iter() iter.Seq2[EntityID, T] {
	archetypes := make([]archetypeID, 0, 1)
	if id, ok := c.world.state.archExact(c.include); ok {
		archetypes = append(archetypes, id)
	}
	return c.iter(archetypes)
}

// -------------------------------------------------------------------------------------------------
// Component Handles
// -------------------------------------------------------------------------------------------------

type accessMode uint8

const (
	accessWrite accessMode = iota
	accessRead
	accessExclude
)

// searchField is an internal interface for the fields of a search result struct.
type searchField interface {
	attach(*WorldState, EntityID)
	register(*World) (componentID, accessMode, error)
}

var _ searchField = &Ref[Component]{}
var _ searchField = &Read[Component]{}
var _ searchField = &Without[Component]{}

// Ref provides a read-write handle to a component on an entity.
type Ref[T Component] struct {
	ws     *WorldState
	entity EntityID
}

func (r *Ref[T]) attach(ws *WorldState, eid EntityID) {
	r.ws = ws
	r.entity = eid
}

func (r *Ref[T]) register(w *World) (componentID, accessMode, error) {
	cid, err := registerComponent[T](w.state)
	return cid, accessWrite, err
}

// Get retrieves the component value for this Ref's entity.
func (r *Ref[T]) Get() T {
	component, err := Get[T](r.ws, r.entity)
	if err != nil {
		panic(eris.Wrapf(err, "ref to entity %d", r.entity))
	}
	return component
}

// Set updates the component value for this Ref's entity. The entity already holds the component,
// so this is never a structural change. A handle to an entity that lost the component panics in
// every build.
func (r *Ref[T]) Set(component T) {
	if !Has[T](r.ws, r.entity) {
		panic(eris.Wrapf(ErrComponentNotFound, "ref to entity %d", r.entity))
	}
	if err := Set(r.ws, r.entity, component); err != nil {
		panic(eris.Wrapf(err, "ref to entity %d", r.entity))
	}
}

// Read provides a read-only handle to a component on an entity.
type Read[T Component] struct {
	ref Ref[T]
}

func (r *Read[T]) attach(ws *WorldState, eid EntityID) {
	r.ref.attach(ws, eid)
}

func (r *Read[T]) register(w *World) (componentID, accessMode, error) {
	cid, err := registerComponent[T](w.state)
	return cid, accessRead, err
}

// Get retrieves the component value for this handle's entity.
func (r *Read[T]) Get() T {
	return r.ref.Get()
}

// Without excludes entities holding T from a search. It has no methods.
type Without[T Component] struct{}

func (Without[T]) attach(*WorldState, EntityID) {}

func (Without[T]) register(w *World) (componentID, accessMode, error) {
	cid, err := registerComponent[T](w.state)
	return cid, accessExclude, err
}

// -------------------------------------------------------------------------------------------------
// Internal
// -------------------------------------------------------------------------------------------------

// initializeSystemState initializes every field of a system state and collects what it touches.
func initializeSystemState[T any](w *World, system string, state *T) (fieldAccess, error) {
	var access fieldAccess
	seenResources := make(map[reflect.Type]bool)

	value := reflect.ValueOf(state).Elem()
	if value.Kind() != reflect.Struct {
		return access, eris.Errorf("system state must be a struct, got %s", value.Type())
	}

	for i := range value.NumField() {
		field := value.Field(i)
		fieldType := value.Type().Field(i)

		if !fieldType.IsExported() {
			return access, eris.Errorf("field %s must be exported", fieldType.Name)
		}

		stateField, ok := field.Addr().Interface().(systemStateField)
		if !ok {
			return access, eris.Errorf("field %s must be a system state field", fieldType.Name)
		}

		deps, err := stateField.init(w, system)
		if err != nil {
			return access, eris.Wrapf(err, "failed to initialize field %s", fieldType.Name)
		}

		for _, res := range deps.resources {
			if seenResources[res] {
				return access, eris.Errorf("resource %s is declared more than once", res)
			}
			seenResources[res] = true
		}
		access.merge(deps)
	}

	return access, nil
}

// systemName derives a name from the system function without its package, e.g. "MoverSystem".
func systemName(fn any) string {
	name := filepath.Base(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
	if _, after, ok := strings.Cut(name, "."); ok {
		name = after
	}
	return strings.TrimSuffix(name, "-fm")
}

// hasOverlap reports whether a and b share any bit.
func hasOverlap(a, b bitmap.Bitmap) bool {
	clone := a.Clone(nil)
	clone.And(b)
	return clone.Count() != 0
}
