package main

import (
	"errors"
	"fmt"
)

// An IORate is the per-second activity of a single device between two
// counter samples. Rates are derived values: they are recomputed on
// every cycle and never stored.
type IORate struct {
	Device         string
	ReadOpsPerSec  float64
	WriteOpsPerSec float64
	ReadKBPerSec   float64
	WriteKBPerSec  float64
}

var ErrInvalidInterval = errors.New("interval must be strictly positive")
var ErrDeviceMismatch = errors.New("samples are not for the same device")

// counterDelta subtracts in uint64 before any float conversion: the
// cumulative counters of a long-lived device sit beyond 2^53, where
// converting the operands first quantizes them and small deltas
// vanish. A counter that went backward yields a negative delta.
func counterDelta(current, previous uint64) float64 {
	if current >= previous {
		return float64(current - previous)
	}
	return -float64(previous - current)
}

// ComputeRate derives per-second rates from two cumulative samples of
// the same device taken intervalSeconds apart. A counter that went
// backward (device reset or counter wrap) yields a negative rate,
// reported as-is rather than silently clamped.
func ComputeRate(current, previous IOCounterSample, intervalSeconds float64) (IORate, error) {
	if intervalSeconds <= 0 {
		return IORate{}, fmt.Errorf("%w: %g", ErrInvalidInterval, intervalSeconds)
	}
	if current.Device != previous.Device {
		return IORate{}, fmt.Errorf("%w: %s and %s",
			ErrDeviceMismatch, current.Device, previous.Device)
	}

	return IORate{
		Device:         current.Device,
		ReadOpsPerSec:  counterDelta(current.ReadOps, previous.ReadOps) / intervalSeconds,
		WriteOpsPerSec: counterDelta(current.WriteOps, previous.WriteOps) / intervalSeconds,
		ReadKBPerSec:   counterDelta(current.ReadBytes, previous.ReadBytes) / intervalSeconds / 1024.0,
		WriteKBPerSec:  counterDelta(current.WriteBytes, previous.WriteBytes) / intervalSeconds / 1024.0,
	}, nil
}
