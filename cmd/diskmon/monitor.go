package main

import (
	"context"
	"time"

	"github.com/atuleu/go-humanize"
	"github.com/formicidae-tracker/diskmon/internal/diskmon"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//go:generate mockgen -source=monitor.go -package main -destination=mock_monitor_test.go

// A Sampler provides the two point-in-time views a cycle needs: the
// usage of the mounted filesystems and the cumulative I/O counters
// per device.
type Sampler interface {
	CollectUsage(ctx context.Context) ([]FilesystemUsage, error)
	CollectIOCounters() (map[string]IOCounterSample, error)
}

// A Renderer consumes the rows composed by a cycle, and the non-fatal
// errors met along the way.
type Renderer interface {
	Render(rows []Row)
	ReportError(msg string)
	Clear()
}

// A Monitor drives the poll loop: sample, diff against the previous
// generation, render, pause, again. No error within a cycle ever
// terminates the loop, only cancelling the context does.
type Monitor struct {
	ctx      context.Context
	sampler  Sampler
	store    *SampleStore
	renderer Renderer
	period   time.Duration

	logger *logrus.Entry
}

func NewMonitor(ctx context.Context, config diskmon.Config) *Monitor {
	return &Monitor{
		ctx:      ctx,
		sampler:  NewCollector(config.IncludeNetwork),
		store:    NewSampleStore(),
		renderer: NewDisplay(config.Batch),
		period:   config.RefreshInterval,
		logger:   NewLogger("monitor"),
	}
}

func (m *Monitor) Run() error {
	start := time.Now()
	m.logger.Infof("refreshing every %s", humanize.Duration(m.period))
	defer func() {
		m.logger.Infof("done after %s", humanize.Duration(time.Since(start).Round(time.Second)))
	}()
	defer m.renderer.Clear()

	for {
		select {
		case <-m.ctx.Done():
			return nil
		default:
		}

		m.update()

		// the pause starts once the cycle's work is done, slow cycles
		// therefore never overlap.
		timer := time.NewTimer(m.period)
		select {
		case <-m.ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// update performs a single cycle. A failed collection is reported on
// the renderer and the cycle carries on with whatever data remains
// available.
func (m *Monitor) update() {
	var annotations []string

	usages, err := m.sampler.CollectUsage(m.ctx)
	if err != nil {
		annotations = append(annotations, err.Error())
	}

	counters, err := m.sampler.CollectIOCounters()
	if err != nil {
		annotations = append(annotations, err.Error())
		counters = make(map[string]IOCounterSample)
	}

	rates, rateErrors := m.computeRates(counters)
	for _, err := range rateErrors {
		annotations = append(annotations, err.Error())
	}

	// the next cycle must diff against the freshest samples, even
	// when no rate could be computed on this one.
	m.store.Replace(counters)

	m.renderer.Render(composeRows(usages, counters, rates))

	// annotations go below the frame just drawn: rendering starts by
	// clearing the screen, anything printed before it is lost.
	for _, msg := range annotations {
		m.renderer.ReportError(msg)
	}
}

// computeRates diffs the new counter generation against the stored
// one, device by device. Devices without a baseline, or sampled twice
// at the same instant, simply wait for the next cycle. Contract
// violations are returned for annotation, the device skipped.
func (m *Monitor) computeRates(counters map[string]IOCounterSample) (map[string]IORate, []error) {
	previous := m.store.Previous()
	rates := make(map[string]IORate)
	var errs []error

	devices := maps.Keys(counters)
	slices.Sort(devices)
	for _, device := range devices {
		before, ok := previous[device]
		if ok == false {
			continue
		}
		current := counters[device]
		elapsed := current.Timestamp.Sub(before.Timestamp).Seconds()
		if elapsed <= 0 {
			continue
		}
		rate, err := ComputeRate(current, before, elapsed)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rates[device] = rate
	}

	return rates, errs
}

// composeRows builds the table, one row per mounted filesystem, with
// the rates of the correlated device attached when they exist. A row
// without rates displays N/A on all four rate columns: a zero there
// would wrongly read as a measured idle device.
func composeRows(usages []FilesystemUsage, counters map[string]IOCounterSample, rates map[string]IORate) []Row {
	rows := make([]Row, 0, len(usages))
	for _, usage := range usages {
		row := Row{
			Device:     usage.Device,
			Mountpoint: usage.Mountpoint,
			Used:       ByteSize(usage.UsedBytes).String(),
			Available:  ByteSize(usage.AvailableBytes).String(),
			Total:      ByteSize(usage.TotalBytes).String(),
			Usage:      formatPercent(usage.UsagePercent),
			ReadOps:    notAvailable,
			WriteOps:   notAvailable,
			ReadKB:     notAvailable,
			WriteKB:    notAvailable,
		}

		if device, ok := ResolveDevice(usage.Device, counters); ok == true {
			if rate, ok := rates[device]; ok == true {
				row.ReadOps = formatRate(rate.ReadOpsPerSec)
				row.WriteOps = formatRate(rate.WriteOpsPerSec)
				row.ReadKB = formatRate(rate.ReadKBPerSec)
				row.WriteKB = formatRate(rate.WriteKBPerSec)
			}
		}

		rows = append(rows, row)
	}

	return rows
}
