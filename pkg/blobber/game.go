// Package blobber drives a grid-locked first-person dungeon crawler. A Game owns the ECS world, the
// tile map and the scene, and advances them one tick at a time from queued input events.
package blobber

import (
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/argus-labs/blobber/pkg/blobber/assets"
	"github.com/argus-labs/blobber/pkg/blobber/component"
	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/argus-labs/blobber/pkg/blobber/scene"
	"github.com/argus-labs/blobber/pkg/blobber/system"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/argus-labs/blobber/pkg/statsd"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Game is safe for concurrent use. Tick holds the game lock for the whole tick, so readers never
// observe a half-applied tick.
type Game struct {
	mu sync.Mutex

	world     *ecs.World
	queue     *input.Queue
	scene     *scene.Scene
	tiles     *tilemap.TileMap[uuid.UUID]
	reflector *jsonschema.Reflector

	options Options
	logger  zerolog.Logger
}

// PlayerView is a copy of the player's components taken between ticks.
type PlayerView struct {
	ID          ecs.EntityID          `json:"id"`
	Name        string                `json:"name"`
	Position    component.Position    `json:"position"`
	Orientation component.Orientation `json:"orientation"`
	Camera      component.Camera      `json:"camera"`
	Animating   bool                  `json:"animating"`
}

// NewGame loads the configuration from the environment, overrides it with opts, loads the map and
// registers the systems. The player is spawned on the first tick.
func NewGame(opts Options) (*Game, error) {
	cfg, err := loadGameConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load game config")
	}
	options := newDefaultOptions()
	cfg.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid game options")
	}

	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}

	src, origin, err := options.mapSource()
	if err != nil {
		return nil, err
	}
	tiles, err := tilemap.Load(src, options.TileSize, scene.NewModel)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load map %s", origin)
	}
	sc := scene.FromTileMap(tiles)
	rows, cols := tiles.Dimensions()
	logger.Info().
		Str("map", origin).
		Stringer("scene", sc.ID).
		Int("tiles", len(tiles.Tiles())).
		Int("rows", rows).
		Int("cols", cols).
		Msg("Load scene")

	g := &Game{
		world: ecs.NewWorld(ecs.WithLogger(logger)),
		queue: &input.Queue{},
		scene: sc,
		tiles: tiles,
		reflector: &jsonschema.Reflector{
			Anonymous:      true, // Don't add $id based on package path
			ExpandedStruct: true, // Inline the struct fields directly
		},
		options: options,
		logger:  logger,
	}
	if err := g.setupWorld(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) setupWorld() error {
	w := g.world
	components := []func() error{
		func() error { return ecs.RegisterComponent[component.Player](w) },
		func() error { return ecs.RegisterComponent[component.Name](w) },
		func() error { return ecs.RegisterComponent[component.Position](w) },
		func() error { return ecs.RegisterComponent[component.Orientation](w) },
		func() error { return ecs.RegisterComponent[component.Camera](w) },
		func() error { return ecs.RegisterComponent[component.Intent](w) },
		func() error { return ecs.RegisterComponent[component.Animation](w) },
	}
	for _, register := range components {
		if err := register(); err != nil {
			return eris.Wrap(err, "failed to register components")
		}
	}

	ecs.AddResource(w, &system.Settings{
		TileSize:    g.options.TileSize,
		Frames:      g.options.AnimationFrames,
		Animate:     !g.options.Instant,
		Sensitivity: g.options.LookSensitivity,
		Bindings:    g.options.Bindings,
		PlayerName:  g.options.PlayerName,
	})
	ecs.AddResource(w, g.queue)
	ecs.AddResource(w, g.scene)
	ecs.AddResource(w, g.tiles)

	if err := system.Register(w); err != nil {
		return err
	}
	w.LogSystemsInfo(&g.logger)
	return nil
}

func (opt *Options) mapSource() (src, origin string, err error) {
	switch {
	case opt.MapSource != "":
		return opt.MapSource, "inline", nil
	case opt.MapPath != "":
		data, err := os.ReadFile(opt.MapPath)
		if err != nil {
			return "", "", eris.Wrapf(err, "failed to read map %s", opt.MapPath)
		}
		return string(data), opt.MapPath, nil
	default:
		return assets.Dungeon, "dungeon.map", nil
	}
}

// Push queues events for the next tick.
func (g *Game) Push(events ...input.Event) {
	g.queue.Push(events...)
}

// Tick runs one tick with the given frame delta in seconds, then clears the event queue. An error
// for which IsFatal returns true means the world is in an inconsistent state.
func (g *Game) Tick(delta float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	g.queue.SetDelta(delta)
	err := g.world.Tick()
	g.queue.Clear()
	statsd.EmitTickStat(start, "full")
	return err
}

// IsFatal reports whether err was caused by a broken invariant.
func IsFatal(err error) bool {
	return eris.Is(err, system.ErrInvariant)
}

// CurrentTick returns the number of completed ticks.
func (g *Game) CurrentTick() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.CurrentTick()
}

// Options returns the resolved options.
func (g *Game) Options() Options {
	return g.options
}

// Scene returns the render-facing scene. Its camera is updated every tick.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Map returns the loaded tile map.
func (g *Game) Map() *tilemap.TileMap[uuid.UUID] {
	return g.tiles
}

// Player returns the current state of the first player entity.
func (g *Game) Player() (PlayerView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ws := g.world.State()
	players, err := ecs.EntitiesWith[component.Player](ws)
	if err != nil {
		return PlayerView{}, err
	}
	if len(players) == 0 {
		return PlayerView{}, eris.Wrap(ecs.ErrEntityNotFound, "no player spawned")
	}

	view := PlayerView{ID: players[0], Animating: ecs.Has[component.Animation](ws, players[0])}
	if name, err := ecs.Get[component.Name](ws, view.ID); err == nil {
		view.Name = name.Value
	}
	if view.Position, err = ecs.Get[component.Position](ws, view.ID); err != nil {
		return PlayerView{}, err
	}
	if view.Orientation, err = ecs.Get[component.Orientation](ws, view.ID); err != nil {
		return PlayerView{}, err
	}
	if view.Camera, err = ecs.Get[component.Camera](ws, view.ID); err != nil {
		return PlayerView{}, err
	}
	return view, nil
}

// -------------------------------------------------------------------------------------------------
// Debug methods
// -------------------------------------------------------------------------------------------------

// Snapshot returns every entity with its components encoded as JSON.
func (g *Game) Snapshot() ([]ecs.EntitySnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.Snapshot()
}

// Search runs a component search against the world.
func (g *Game) Search(params ecs.SearchParam) ([]map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.NewSearch(params)
}

// Systems returns the registered systems in execution order.
func (g *Game) Systems() []ecs.SystemInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world.Systems()
}

// ComponentSchemas returns the JSON schema of every registered component, keyed by name.
func (g *Game) ComponentSchemas() (map[string]map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	types := g.world.ComponentTypes()
	schemas := make(map[string]map[string]any, len(types))
	for name, typ := range types {
		schema, err := g.reflectSchema(typ)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to build schema for %s", name)
		}
		schemas[name] = schema
	}
	return schemas, nil
}

func (g *Game) reflectSchema(typ reflect.Type) (map[string]any, error) {
	data, err := json.Marshal(g.reflector.ReflectFromType(typ))
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal schema")
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal schema")
	}
	// Remove redundant fields that are always the same for structs.
	delete(result, "$schema")
	delete(result, "type")
	delete(result, "additionalProperties")
	return result, nil
}
