package diskmon

import (
	"time"
)

type Config struct {
	RefreshInterval time.Duration
	IncludeNetwork  bool
	Batch           bool
}

var DefaultConfig Config

const DISKMON_VERSION = "v0.1.0"

// Refreshing faster than this only burns CPU on statfs calls, the
// kernel counters barely move in between.
const MIN_REFRESH_INTERVAL = 100 * time.Millisecond

func init() {
	DefaultConfig = Config{
		RefreshInterval: 2 * time.Second,
	}
}
