package main

import (
	"errors"
	"math"
	"time"

	. "gopkg.in/check.v1"
)

type RatesSuite struct {
	epoch time.Time
}

var _ = Suite(&RatesSuite{})

func (s *RatesSuite) SetUpSuite(c *C) {
	s.epoch = time.Date(2023, 7, 12, 8, 30, 0, 0, time.UTC)
}

func (s *RatesSuite) sample(device string, readOps, writeOps, readBytes, writeBytes uint64) IOCounterSample {
	return IOCounterSample{
		Device:     device,
		ReadOps:    readOps,
		WriteOps:   writeOps,
		ReadBytes:  readBytes,
		WriteBytes: writeBytes,
		Timestamp:  s.epoch,
	}
}

func (s *RatesSuite) TestComputesPerSecondRates(c *C) {
	previous := s.sample("sda", 100, 200, 0, 0)
	current := s.sample("sda", 150, 220, 204800, 102400)

	rate, err := ComputeRate(current, previous, 2.0)
	c.Assert(err, IsNil)
	c.Check(rate.Device, Equals, "sda")
	c.Check(rate.ReadOpsPerSec, Equals, 25.0)
	c.Check(rate.WriteOpsPerSec, Equals, 10.0)
	c.Check(rate.ReadKBPerSec, Equals, 100.0)
	c.Check(rate.WriteKBPerSec, Equals, 50.0)
}

func (s *RatesSuite) TestMatchesDeltaOverInterval(c *C) {
	testdata := []struct {
		Delta    uint64
		Interval float64
	}{
		{Delta: 1, Interval: 0.1},
		{Delta: 7, Interval: 0.3},
		{Delta: 1000, Interval: 2.0},
		{Delta: 0, Interval: 5.0},
	}

	for _, d := range testdata {
		rate, err := ComputeRate(s.sample("sda", d.Delta, 0, 0, 0),
			s.sample("sda", 0, 0, 0, 0),
			d.Interval)
		c.Assert(err, IsNil)
		expected := float64(d.Delta) / d.Interval
		c.Check(math.Abs(rate.ReadOpsPerSec-expected) < 1e-10, Equals, true,
			Commentf("delta: %d interval: %g got: %g", d.Delta, d.Interval, rate.ReadOpsPerSec))
	}
}

func (s *RatesSuite) TestRejectsNonPositiveIntervals(c *C) {
	previous := s.sample("sda", 0, 0, 0, 0)
	current := s.sample("sda", 10, 10, 10, 10)

	for _, interval := range []float64{0.0, -1.0, -0.0001} {
		rate, err := ComputeRate(current, previous, interval)
		c.Check(err, ErrorMatches, "interval must be strictly positive: .*",
			Commentf("interval: %g", interval))
		c.Check(errors.Is(err, ErrInvalidInterval), Equals, true)
		c.Check(rate, Equals, IORate{})
	}
}

func (s *RatesSuite) TestRejectsMismatchedDevices(c *C) {
	rate, err := ComputeRate(s.sample("sda", 10, 0, 0, 0),
		s.sample("sdb", 0, 0, 0, 0),
		2.0)
	c.Check(err, ErrorMatches, "samples are not for the same device: sda and sdb")
	c.Check(errors.Is(err, ErrDeviceMismatch), Equals, true)
	c.Check(rate, Equals, IORate{})
}

func (s *RatesSuite) TestLargeCountersKeepExactDeltas(c *C) {
	// past 2^53 a float64 cannot hold a counter exactly anymore; the
	// deltas must be taken in uint64 or they collapse to zero and the
	// device reads as idle.
	base := uint64(1) << 60
	previous := s.sample("sda", base, base, base, base)
	current := s.sample("sda", base+100, base+20, base+204800, base+102400)

	rate, err := ComputeRate(current, previous, 2.0)
	c.Assert(err, IsNil)
	c.Check(rate.ReadOpsPerSec, Equals, 50.0)
	c.Check(rate.WriteOpsPerSec, Equals, 10.0)
	c.Check(rate.ReadKBPerSec, Equals, 100.0)
	c.Check(rate.WriteKBPerSec, Equals, 50.0)

	rate, err = ComputeRate(previous, current, 2.0)
	c.Assert(err, IsNil)
	c.Check(rate.ReadOpsPerSec, Equals, -50.0)
	c.Check(rate.WriteKBPerSec, Equals, -50.0)
}

func (s *RatesSuite) TestNegativeDeltasAreNotClamped(c *C) {
	// a re-attached device restarts its counters from zero: the rate
	// goes negative for one cycle and must stay visible as such.
	previous := s.sample("sda", 150, 220, 204800, 102400)
	current := s.sample("sda", 100, 200, 0, 0)

	rate, err := ComputeRate(current, previous, 2.0)
	c.Assert(err, IsNil)
	c.Check(rate.ReadOpsPerSec, Equals, -25.0)
	c.Check(rate.WriteOpsPerSec, Equals, -10.0)
	c.Check(rate.ReadKBPerSec, Equals, -100.0)
	c.Check(rate.WriteKBPerSec, Equals, -50.0)
}
