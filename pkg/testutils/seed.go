package testutils

import (
	"os"
	"strconv"
	"time"
)

// Seed is shared by every PRNG created in tests. Set TEST_SEED to replay a failing run.
var Seed uint64 //nolint:gochecknoglobals // intentionally global for test reproducibility

func init() { //nolint:gochecknoinits // intentionally using init to set seed
	if envSeed := os.Getenv("TEST_SEED"); envSeed != "" {
		parsed, err := strconv.ParseUint(envSeed, 0, 64)
		if err == nil {
			Seed = parsed
			return
		}
	}
	Seed = uint64(time.Now().UnixNano()) //nolint:gosec // overflow is acceptable for test seeds
}
