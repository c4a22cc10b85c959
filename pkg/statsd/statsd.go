// Package statsd wraps the handful of statsd calls the simulation makes. It hides the datadog
// dependency so the rest of the module only deals with tick stages and counters.
package statsd

import (
	"sync"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const namespace = "blobber."

var (
	mu     sync.RWMutex                                  //nolint:gochecknoglobals // process-wide client
	client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{} //nolint:gochecknoglobals // process-wide client
)

// Client returns the active statsd client. It is a no-op client until Init succeeds.
func Client() ddstatsd.ClientInterface {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// EmitTickStat records how long a tick stage took, tagged with the stage name.
func EmitTickStat(start time.Time, stage string) {
	err := Client().Timing("tick", time.Since(start), []string{"stage:" + stage}, 1)
	if err != nil {
		log.Logger.Warn().Err(err).Str("stage", stage).Msg("failed to emit tick stat")
	}
}

// Incr increments a counter by one.
func Incr(name string, tags ...string) {
	if err := Client().Incr(name, tags, 1); err != nil {
		log.Logger.Warn().Err(err).Str("metric", name).Msg("failed to emit counter")
	}
}

// Init replaces the no-op client with a real one sending to address.
func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		ddstatsd.WithNamespace(namespace),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}

	mu.Lock()
	client = newClient
	mu.Unlock()
	return nil
}

// Close flushes and closes the active client and restores the no-op client.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := client.Close()
	client = &ddstatsd.NoOpClient{}
	return eris.Wrap(err, "failed to close statsd client")
}
