package main

import (
	"fmt"
)

// ByteSize formats a byte count for the table, using base-1024 units:
// plain bytes print as an integer, anything from 1 KB up with a
// single decimal.
type ByteSize uint64

const (
	kilobyte = 1 << (10 * (iota + 1))
	megabyte
	gigabyte
	terabyte
)

func (s ByteSize) String() string {
	v := float64(s)
	switch {
	case s < kilobyte:
		return fmt.Sprintf("%d B", uint64(s))
	case s < megabyte:
		return fmt.Sprintf("%.1f KB", v/kilobyte)
	case s < gigabyte:
		return fmt.Sprintf("%.1f MB", v/megabyte)
	case s < terabyte:
		return fmt.Sprintf("%.1f GB", v/gigabyte)
	}
	return fmt.Sprintf("%.1f TB", v/terabyte)
}

// notAvailable marks a rate that could not be computed. The
// distinction with "0.0" matters: a zero is a measured idle device, a
// placeholder is the absence of a measure.
const notAvailable = "N/A"

func formatRate(value float64) string {
	return fmt.Sprintf("%.1f", value)
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
