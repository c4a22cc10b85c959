// Package telemetry builds the process logger and connects the statsd client.
package telemetry

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/argus-labs/blobber/pkg/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Telemetry struct {
	Logger      zerolog.Logger
	serviceName string
	statsd      bool
}

// New loads the telemetry config from the environment, overrides it with opts, and sets up the
// logger and metrics client.
func New(opts Options) (Telemetry, error) {
	config, err := loadConfig()
	if err != nil {
		return Telemetry{}, eris.Wrap(err, "failed to load telemetry config")
	}

	options := newDefaultOptions()
	config.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return Telemetry{}, eris.Wrap(err, "invalid telemetry options")
	}

	logger := newLogger(options)
	log.Logger = logger

	t := Telemetry{Logger: logger, serviceName: options.ServiceName}
	if options.StatsdAddress != "" {
		if err := statsd.Init(options.StatsdAddress, options.StatsdTags); err != nil {
			return Telemetry{}, eris.Wrap(err, "failed to init statsd")
		}
		t.statsd = true
	}
	return t, nil
}

// GetLogger returns a component-specific logger.
func (t *Telemetry) GetLogger(component string) zerolog.Logger {
	return t.Logger.With().Str("component", t.serviceName+"."+component).Logger()
}

// Shutdown flushes the metrics client if one was started.
func (t *Telemetry) Shutdown() error {
	if !t.statsd {
		return nil
	}
	return statsd.Close()
}

func newLogger(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if opts.Writer != nil {
		out = opts.Writer
	}

	var writer io.Writer
	switch opts.LogFormat {
	case LogFormatPretty:
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	case LogFormatJSON, LogFormatUndefined:
		writer = out
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Caller().
		Str("service", opts.ServiceName).
		Logger()
}
