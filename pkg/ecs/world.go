package ecs

import (
	"reflect"
	"slices"

	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World represents the root ECS state: the entities, the registered systems and the resources they
// share.
type World struct {
	state     *WorldState
	logger    zerolog.Logger
	resources map[reflect.Type]any
	buffer    Buffer
	tick      uint64

	// Systems.
	initDone    bool               // Tracks if init systems have been executed
	initSystems systemScheduler    // Initialization systems, run once before the first tick
	scheduler   [3]systemScheduler // Systems schedulers (PreUpdate, Update, PostUpdate)
	systemNames map[string]bool
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger systems derive their loggers from. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) { w.logger = logger }
}

// NewWorld creates a new World instance.
func NewWorld(opts ...WorldOption) *World {
	world := &World{
		state:       newWorldState(),
		logger:      zerolog.Nop(),
		resources:   make(map[reflect.Type]any),
		initSystems: newSystemScheduler(Init.String()),
		systemNames: make(map[string]bool),
	}
	for i := range world.scheduler {
		world.scheduler[i] = newSystemScheduler(SystemHook(i).String())
	}
	for _, opt := range opts {
		opt(world)
	}
	return world
}

// RegisterComponent registers a component type so entities can be created with it outside of
// systems.
func RegisterComponent[T Component](w *World) error {
	_, err := registerComponent[T](w.state)
	return err
}

// AddResource adds a singleton shared by systems through WithResource. Adding a resource of a type
// that already exists replaces it for systems registered afterwards.
func AddResource[T any](w *World, resource *T) {
	w.resources[reflect.TypeFor[T]()] = resource
}

// GetResource returns the resource of type T.
func GetResource[T any](w *World) (*T, error) {
	typ := reflect.TypeFor[T]()
	value, ok := w.resources[typ]
	if !ok {
		return nil, eris.Wrapf(ErrResourceNotFound, "resource %s", typ)
	}
	return value.(*T), nil //nolint:errcheck // keyed by type
}

// RegisterSystem registers a system and its state with the world. By default, systems are
// registered to the Update hook. Systems of the same hook run in registration order.
//
// Example:
//
//	type RegenSystemState struct {
//	    ecs.BaseSystemState
//	    Players ecs.Contains[struct {
//	        Health ecs.Ref[Health]
//	    }]
//	}
//
//	err := ecs.RegisterSystem(world, func(state *RegenSystemState) error {
//	    // System logic here
//	    return nil
//	})
func RegisterSystem[T any](w *World, system System[T], opts ...SystemOption) error {
	cfg := newSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	name := cfg.name
	if name == "" {
		name = systemName(system)
	}
	if w.systemNames[name] {
		return eris.Errorf("system %s is already registered", name)
	}
	if cfg.hook == Init && w.initDone {
		return eris.Errorf("init system %s registered after the world was initialized", name)
	}
	if cfg.hook > Init {
		return eris.Errorf("invalid hook %d for system %s", cfg.hook, name)
	}

	state := new(T)
	access, err := initializeSystemState(w, name, state)
	if err != nil {
		return eris.Wrapf(err, "failed to register system %s", name)
	}

	meta := systemMetadata{
		name:   name,
		access: access,
		fn:     func() error { return system(state) },
	}
	if cfg.hook == Init {
		w.initSystems.register(meta)
	} else {
		w.scheduler[cfg.hook].register(meta)
	}
	w.systemNames[name] = true
	return nil
}

// Init runs the init systems. It is a no-op after the first call.
func (w *World) Init() error {
	if w.initDone {
		return nil
	}
	if err := w.initSystems.Run(w.state, &w.buffer); err != nil {
		w.buffer.reset()
		return eris.Wrap(err, "init failed")
	}
	w.initDone = true
	return nil
}

// Tick runs every registered system once, hook by hook. Init systems run first if Init wasn't
// called. The first error aborts the tick and is returned; the world is left as the failing
// system left it, and changes it buffered are discarded.
func (w *World) Tick() error {
	if err := w.Init(); err != nil {
		return err
	}

	for i := range w.scheduler {
		if err := w.scheduler[i].Run(w.state, &w.buffer); err != nil {
			w.buffer.reset()
			return eris.Wrapf(err, "tick %d failed", w.tick)
		}
	}
	w.tick++

	return nil
}

// CurrentTick returns the number of completed ticks.
func (w *World) CurrentTick() uint64 {
	return w.tick
}

// State returns the world state. Hosts use it to read components between ticks.
func (w *World) State() *WorldState {
	return w.state
}

// -------------------------------------------------------------------------------------------------
// Introspection methods
// -------------------------------------------------------------------------------------------------

// ComponentTypes returns a map of component names to their reflect.Type.
func (w *World) ComponentTypes() map[string]reflect.Type {
	types := make(map[string]reflect.Type, len(w.state.components.types))
	for name, typ := range w.state.components.types {
		types[name] = typ
	}
	return types
}

// Systems returns every registered system in execution order, init systems first.
func (w *World) Systems() []SystemInfo {
	schedulers := []struct {
		hook SystemHook
		s    *systemScheduler
	}{
		{Init, &w.initSystems},
		{PreUpdate, &w.scheduler[PreUpdate]},
		{Update, &w.scheduler[Update]},
		{PostUpdate, &w.scheduler[PostUpdate]},
	}

	infos := make([]SystemInfo, 0)
	for _, sched := range schedulers {
		for _, system := range sched.s.systems {
			resources := make([]string, len(system.access.resources))
			for i, res := range system.access.resources {
				resources[i] = res.String()
			}
			infos = append(infos, SystemInfo{
				Name:      system.name,
				Hook:      sched.hook.String(),
				Reads:     w.componentNames(system.access.reads),
				Writes:    w.componentNames(system.access.writes),
				Excludes:  w.componentNames(system.access.excludes),
				Resources: resources,
			})
		}
	}
	return infos
}

// LogSystemsInfo logs the execution order of the registered systems.
func (w *World) LogSystemsInfo(logger *zerolog.Logger) {
	arr := zerolog.Arr()
	for _, info := range w.Systems() {
		arr = arr.Str(info.Hook + ":" + info.Name)
	}
	logger.Info().Array("systems", arr).Msg("registered systems")
}

func (w *World) componentNames(components bitmap.Bitmap) []string {
	names := make([]string, 0, components.Count())
	components.Range(func(cid uint32) {
		names = append(names, w.state.components.name(cid))
	})
	slices.Sort(names)
	return names
}
