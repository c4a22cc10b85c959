package blobber

import (
	"math"

	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/argus-labs/blobber/pkg/blobber/tilemap"
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// gameConfig holds the game configuration read from environment variables.
type gameConfig struct {
	// World units per grid cell.
	TileSize float64 `env:"BLOBBER_TILE_SIZE" envDefault:"1.0"`

	// Ticks spent on an animated move or turn.
	AnimationFrames uint32 `env:"BLOBBER_ANIMATION_FRAMES" envDefault:"30"`

	// Resolve moves over AnimationFrames ticks. When false every move completes in one tick.
	Animate bool `env:"BLOBBER_ANIMATE" envDefault:"true"`

	// Mouse look scale.
	LookSensitivity float64 `env:"BLOBBER_LOOK_SENSITIVITY" envDefault:"0.7"`

	// Host ticks per second.
	TickRate float64 `env:"BLOBBER_TICK_RATE" envDefault:"60"`

	// Map file to load. The embedded dungeon is used when empty.
	MapPath string `env:"BLOBBER_MAP_PATH"`

	// Listen address of the debug HTTP server. The server is disabled when empty.
	DebugAddr string `env:"BLOBBER_DEBUG_ADDR"`
}

// loadGameConfig loads the game configuration from environment variables.
func loadGameConfig() (gameConfig, error) {
	cfg := gameConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse game config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

// validate performs validation on the loaded configuration.
func (cfg *gameConfig) validate() error {
	if err := validateTileSize(cfg.TileSize); err != nil {
		return err
	}
	if cfg.AnimationFrames == 0 {
		return eris.New("animation frames must be positive")
	}
	if cfg.LookSensitivity < 0 {
		return eris.New("look sensitivity cannot be negative")
	}
	if cfg.TickRate <= 0 {
		return eris.New("tick rate must be positive")
	}
	return nil
}

// applyToOptions applies the configuration values to the given Options.
func (cfg *gameConfig) applyToOptions(opt *Options) {
	opt.TileSize = cfg.TileSize
	opt.AnimationFrames = cfg.AnimationFrames
	opt.Instant = !cfg.Animate
	opt.LookSensitivity = cfg.LookSensitivity
	opt.TickRate = cfg.TickRate
	opt.MapPath = cfg.MapPath
	opt.DebugAddr = cfg.DebugAddr
}

type Options struct {
	TileSize        float64         // World units per grid cell
	AnimationFrames uint32          // Ticks per animated move or turn
	Instant         bool            // Resolve every move in a single tick
	LookSensitivity float64         // Mouse look scale
	TickRate        float64         // Host ticks per second
	MapPath         string          // Map file, ignored when MapSource is set
	MapSource       string          // Raw map text, overrides MapPath and the embedded dungeon
	DebugAddr       string          // Debug HTTP server listen address
	PlayerName      string          // Name given to the player entity
	Bindings        input.Bindings  // Key bindings, defaults to AZERTY with arrow keys
	Logger          *zerolog.Logger // Game logger, defaults to a no-op logger
}

// newDefaultOptions creates Options with default values.
func newDefaultOptions() Options {
	// Set these to invalid values to force the config or the caller to provide them.
	return Options{
		TileSize:        0,
		AnimationFrames: 0,
		TickRate:        0,
		PlayerName:      "blobber",
		Bindings:        input.DefaultBindings(),
	}
}

// apply merges the given options into the current options, overriding non-zero values.
func (opt *Options) apply(newOpt Options) {
	if newOpt.TileSize != 0 {
		opt.TileSize = newOpt.TileSize
	}
	if newOpt.AnimationFrames != 0 {
		opt.AnimationFrames = newOpt.AnimationFrames
	}
	if newOpt.Instant {
		opt.Instant = true
	}
	if newOpt.LookSensitivity != 0 {
		opt.LookSensitivity = newOpt.LookSensitivity
	}
	if newOpt.TickRate != 0 {
		opt.TickRate = newOpt.TickRate
	}
	if newOpt.MapPath != "" {
		opt.MapPath = newOpt.MapPath
	}
	if newOpt.MapSource != "" {
		opt.MapSource = newOpt.MapSource
	}
	if newOpt.DebugAddr != "" {
		opt.DebugAddr = newOpt.DebugAddr
	}
	if newOpt.PlayerName != "" {
		opt.PlayerName = newOpt.PlayerName
	}
	if newOpt.Bindings != nil {
		opt.Bindings = newOpt.Bindings
	}
	if newOpt.Logger != nil {
		opt.Logger = newOpt.Logger
	}
}

// validate checks that all required options are set and valid.
func (opt *Options) validate() error {
	if err := validateTileSize(opt.TileSize); err != nil {
		return err
	}
	if opt.AnimationFrames == 0 {
		return eris.New("animation frames must be positive")
	}
	if opt.TickRate <= 0 {
		return eris.New("tick rate must be positive")
	}
	if opt.PlayerName == "" {
		return eris.New("player name cannot be empty")
	}
	return nil
}

// validateTileSize requires the tile size to divide the map's half extent, so the grid that moves
// snap to lines up with the tiles.
func validateTileSize(tileSize float64) error {
	if tileSize <= 0 {
		return eris.Errorf("tile size must be positive, got %v", tileSize)
	}
	if math.Mod(tilemap.HalfExtent, tileSize) != 0 {
		return eris.Errorf("tile size must divide %v, got %v", tilemap.HalfExtent, tileSize)
	}
	return nil
}
