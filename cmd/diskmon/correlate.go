package main

import (
	"path"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ResolveDevice matches the device path of a mounted filesystem
// (/dev/sda1) to one of the bare kernel names keying the counter
// samples (sda). It tries, in order: the exact base name, a counter
// key the base name extends (the partition sda1 is served by the disk
// sda), and finally a counter key extending the base name stripped of
// its trailing digits. Keys are scanned in lexicographic order so
// that the match is deterministic when several would qualify. It
// returns false when nothing matches: the caller then renders the row
// without I/O data.
func ResolveDevice(devicePath string, counters map[string]IOCounterSample) (string, bool) {
	base := path.Base(devicePath)

	if _, ok := counters[base]; ok == true {
		return base, true
	}

	keys := maps.Keys(counters)
	slices.Sort(keys)

	for _, key := range keys {
		if strings.HasPrefix(base, key) == true {
			return key, true
		}
	}

	stripped := strings.TrimRight(base, "0123456789")
	for _, key := range keys {
		if strings.HasPrefix(key, stripped) == true {
			return key, true
		}
	}

	return "", false
}
