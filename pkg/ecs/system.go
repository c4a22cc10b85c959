package ecs

// System is a function that contains game logic.
type System[T any] func(state *T) error

// systemConfig holds all configurable options for system registration.
type systemConfig struct {
	// The hook that determines when the system should be executed.
	hook SystemHook
	// Overrides the name derived from the system function.
	name string
}

func newSystemConfig() systemConfig {
	return systemConfig{
		hook: Update,
	}
}

// SystemOption is a function that configures a SystemConfig.
type SystemOption func(*systemConfig)

// SystemHook defines when a system should be executed in the update cycle.
type SystemHook uint8

const (
	// PreUpdate runs before the main update.
	PreUpdate SystemHook = 0
	// Update runs during the main update phase.
	Update SystemHook = 1
	// PostUpdate runs after the main update.
	PostUpdate SystemHook = 2
	// Init runs once during world initialization.
	Init SystemHook = 3
)

func (h SystemHook) String() string {
	switch h {
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case Init:
		return "init"
	default:
		return "unknown"
	}
}

// WithHook returns an option to set the system hook.
func WithHook(hook SystemHook) SystemOption {
	return func(cfg *systemConfig) { cfg.hook = hook }
}

// WithName returns an option to set the system name used in logs, metrics and errors.
func WithName(name string) SystemOption {
	return func(cfg *systemConfig) { cfg.name = name }
}

// SystemInfo describes a registered system and the components it touches.
type SystemInfo struct {
	Name      string   `json:"name"`
	Hook      string   `json:"hook"`
	Reads     []string `json:"reads"`
	Writes    []string `json:"writes"`
	Excludes  []string `json:"excludes"`
	Resources []string `json:"resources"`
}
