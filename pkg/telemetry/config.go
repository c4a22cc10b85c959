package telemetry

import (
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Config struct {
	// Log level configuration ("debug", "info", "warn", "error").
	LogLevel string `env:"BLOBBER_LOG_LEVEL" envDefault:"info"`

	// Log format configuration ("json", "pretty").
	LogFormat string `env:"BLOBBER_LOG_FORMAT" envDefault:"pretty"`

	// StatsdAddress is the statsd agent address. Metrics are dropped when empty.
	StatsdAddress string `env:"BLOBBER_STATSD_ADDR"`
}

// loadConfig loads the configuration from environment variables.
func loadConfig() (Config, error) {
	cfg := Config{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse telemetry config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate telemetry config")
	}

	return cfg, nil
}

// validate performs validation on the loaded configuration.
func (cfg *Config) validate() error {
	_, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return eris.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", cfg.LogLevel)
	}

	if ParseLogFormat(cfg.LogFormat) == LogFormatUndefined {
		return eris.Errorf("invalid log format: %s (must be 'json' or 'pretty')", cfg.LogFormat)
	}

	return nil
}

func (cfg *Config) applyToOptions(opt *Options) {
	opt.LogLevel = cfg.LogLevel
	opt.LogFormat = ParseLogFormat(cfg.LogFormat)
	opt.StatsdAddress = cfg.StatsdAddress
}

type Options struct {
	ServiceName   string    // Name of the service, added to every log line
	LogLevel      string    // Minimum level written
	LogFormat     LogFormat // Log output format
	StatsdAddress string    // Statsd agent address, empty disables metrics
	StatsdTags    []string  // Tags added to every metric
	Writer        io.Writer // Overrides stdout, used by tests and the terminal host
}

func newDefaultOptions() Options {
	// Set these to invalid values to force users to pass in the correct options.
	return Options{
		ServiceName: "",
		LogLevel:    "",
		LogFormat:   LogFormatUndefined,
	}
}

// apply merges the given options into the current options, overriding non-zero values.
func (opt *Options) apply(newOpt Options) {
	if newOpt.ServiceName != "" {
		opt.ServiceName = newOpt.ServiceName
	}
	if newOpt.LogLevel != "" {
		opt.LogLevel = newOpt.LogLevel
	}
	if newOpt.LogFormat != LogFormatUndefined {
		opt.LogFormat = newOpt.LogFormat
	}
	if newOpt.StatsdAddress != "" {
		opt.StatsdAddress = newOpt.StatsdAddress
	}
	if newOpt.StatsdTags != nil {
		opt.StatsdTags = newOpt.StatsdTags
	}
	if newOpt.Writer != nil {
		opt.Writer = newOpt.Writer
	}
}

// validate checks that all required options are set and valid.
func (opt *Options) validate() error {
	if opt.ServiceName == "" {
		return eris.New("service name cannot be empty")
	}
	_, err := zerolog.ParseLevel(strings.ToLower(opt.LogLevel))
	if err != nil {
		return eris.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", opt.LogLevel)
	}
	if opt.LogFormat == LogFormatUndefined {
		return eris.New("log format must be specified")
	}
	return nil
}

// LogFormat represents the log output format.
type LogFormat uint8

const (
	LogFormatUndefined LogFormat = iota // Used as the zero value
	LogFormatJSON                       // Outputs structured JSON logs
	LogFormatPretty                     // Outputs human-readable console logs
)

const (
	jsonFormatString      = "json"
	prettyFormatString    = "pretty"
	undefinedFormatString = "undefined"
)

func (f LogFormat) String() string {
	switch f {
	case LogFormatJSON:
		return jsonFormatString
	case LogFormatPretty:
		return prettyFormatString
	case LogFormatUndefined:
		return undefinedFormatString
	default:
		return undefinedFormatString
	}
}

// ParseLogFormat converts a string to LogFormat enum.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case jsonFormatString:
		return LogFormatJSON
	case prettyFormatString:
		return LogFormatPretty
	default:
		return LogFormatUndefined
	}
}
