package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// A FilesystemUsage reports the space used on a single mounted
// filesystem. It is rebuilt from scratch on every cycle.
type FilesystemUsage struct {
	Device         string
	Mountpoint     string
	TotalBytes     uint64
	UsedBytes      uint64
	AvailableBytes uint64
	UsagePercent   float64
}

// An IOCounterSample is a point-in-time reading of the cumulative I/O
// counters of a block device. Counters only grow over the lifetime of
// a device, but restart from zero when it is re-attached.
type IOCounterSample struct {
	Device     string
	ReadOps    uint64
	WriteOps   uint64
	ReadBytes  uint64
	WriteBytes uint64
	Timestamp  time.Time
}

// pseudo filesystems never sit on addressable storage, they are
// always skipped. The physical-only enumeration already hides the
// kernel's nodev types (proc, sysfs, cgroups ...); this set catches
// the device-backed impostors it lets through.
var pseudoFilesystems = map[string]bool{
	"tmpfs":    true,
	"devtmpfs": true,
	"squashfs": true,
	"overlay":  true,
}

// network filesystems are skipped unless explicitly asked for: their
// statfs can block for seconds on an unreachable server.
var networkFilesystems = map[string]bool{
	"nfs":            true,
	"nfs4":           true,
	"cifs":           true,
	"smb":            true,
	"smbfs":          true,
	"fuse.sshfs":     true,
	"fuse.glusterfs": true,
}

const diskstatsPath = "/proc/diskstats"

// the kernel reports sector counts in this fixed unit, regardless of
// the hardware sector size.
const sectorSize = 512

// fsStat returns the free and total bytes of the filesystem
// containing path. The path must exists.
func fsStat(path string) (free int64, total int64, err error) {
	var stat unix.Statfs_t

	err = unix.Statfs(path, &stat)
	if err != nil {
		return 0, 0, fmt.Errorf("could not get available size for %s: %w", path, err)
	}

	return int64(stat.Bavail * uint64(stat.Bsize)), int64(stat.Blocks * uint64(stat.Bsize)), nil
}

// A Collector samples filesystem usage and cumulative I/O counters
// from the OS. Its accessors are struct fields so tests can swap them
// for canned data.
type Collector struct {
	includeNetwork bool

	partitions  func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	fsStat      func(path string) (free int64, total int64, err error)
	counterFeed func() (io.ReadCloser, error)

	logger *logrus.Entry
}

func NewCollector(includeNetwork bool) *Collector {
	return &Collector{
		includeNetwork: includeNetwork,
		partitions:     disk.PartitionsWithContext,
		fsStat:         fsStat,
		counterFeed: func() (io.ReadCloser, error) {
			return os.Open(diskstatsPath)
		},
		logger: NewLogger("collector"),
	}
}

// CollectUsage enumerates the mounted filesystems and reports their
// usage. The enumeration is restricted to physical devices, so proc,
// sysfs, cgroups and the rest of the virtual mounts never show up;
// pseudo filesystems are excluded on top of that, and network mounts
// are folded in from a full enumeration when the collector was built
// to include them. A mount whose space cannot be queried is skipped:
// one stale NFS handle must not take the whole scan down.
func (c *Collector) CollectUsage(ctx context.Context) ([]FilesystemUsage, error) {
	partitions, err := c.partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("could not enumerate mounted filesystems: %w", err)
	}

	if c.includeNetwork == true {
		remote, err := c.networkPartitions(ctx, partitions)
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, remote...)
	}

	usages := make([]FilesystemUsage, 0, len(partitions))
	for _, part := range partitions {
		if c.excluded(part.Fstype) == true {
			continue
		}
		free, total, err := c.fsStat(part.Mountpoint)
		if err != nil {
			c.logger.WithError(err).Debugf("skipping %s", part.Mountpoint)
			continue
		}
		used := total - free
		percent := 0.0
		if total > 0 {
			percent = 100.0 * float64(used) / float64(total)
		}
		usages = append(usages, FilesystemUsage{
			Device:         part.Device,
			Mountpoint:     part.Mountpoint,
			TotalBytes:     uint64(total),
			UsedBytes:      uint64(used),
			AvailableBytes: uint64(free),
			UsagePercent:   percent,
		})
	}

	return usages, nil
}

func (c *Collector) excluded(fstype string) bool {
	if pseudoFilesystems[fstype] == true {
		return true
	}
	return c.includeNetwork == false && networkFilesystems[fstype] == true
}

// networkPartitions lists the network mounts the physical-only
// enumeration leaves out. Some platforms ignore the physical-only
// flag and report them on both passes, hence the mountpoint dedup.
func (c *Collector) networkPartitions(ctx context.Context, have []disk.PartitionStat) ([]disk.PartitionStat, error) {
	all, err := c.partitions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("could not enumerate mounted filesystems: %w", err)
	}

	seen := make(map[string]bool, len(have))
	for _, part := range have {
		seen[part.Mountpoint] = true
	}

	remote := make([]disk.PartitionStat, 0, len(all))
	for _, part := range all {
		if networkFilesystems[part.Fstype] == true && seen[part.Mountpoint] == false {
			remote = append(remote, part)
		}
	}
	return remote, nil
}

// CollectIOCounters reads the kernel per-device counter feed, keyed
// by bare device name. Loopback and ramdisk devices are skipped, and
// so is any malformed line. An unreadable feed is not an error: it
// yields an empty map and the cycle goes on without I/O data.
func (c *Collector) CollectIOCounters() (map[string]IOCounterSample, error) {
	samples := make(map[string]IOCounterSample)

	feed, err := c.counterFeed()
	if err != nil {
		c.logger.WithError(err).Debugf("counter feed is unavailable")
		return samples, nil
	}
	defer feed.Close()

	now := time.Now()
	scanner := bufio.NewScanner(feed)
	for scanner.Scan() {
		sample, ok := parseCounterLine(scanner.Text(), now)
		if ok == false {
			continue
		}
		samples[sample.Device] = sample
	}
	if err := scanner.Err(); err != nil {
		c.logger.WithError(err).Debugf("counter feed was truncated")
	}

	return samples, nil
}

// parseCounterLine decodes one line of the counter feed. The line
// layout is fixed: at least 14 whitespace separated fields, the device
// name at index 2, completed reads at 3, sectors read at 5, completed
// writes at 7 and sectors written at 9.
func parseCounterLine(line string, now time.Time) (IOCounterSample, bool) {
	fields := strings.Fields(line)
	if len(fields) < 14 {
		return IOCounterSample{}, false
	}

	device := fields[2]
	if strings.HasPrefix(device, "loop") == true ||
		strings.HasPrefix(device, "ram") == true {
		return IOCounterSample{}, false
	}

	readOps, errR := strconv.ParseUint(fields[3], 10, 64)
	readSectors, errRS := strconv.ParseUint(fields[5], 10, 64)
	writeOps, errW := strconv.ParseUint(fields[7], 10, 64)
	writeSectors, errWS := strconv.ParseUint(fields[9], 10, 64)
	if errR != nil || errRS != nil || errW != nil || errWS != nil {
		return IOCounterSample{}, false
	}

	return IOCounterSample{
		Device:     device,
		ReadOps:    readOps,
		WriteOps:   writeOps,
		ReadBytes:  readSectors * sectorSize,
		WriteBytes: writeSectors * sectorSize,
		Timestamp:  now,
	}, true
}
