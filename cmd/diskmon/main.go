package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formicidae-tracker/diskmon/internal/diskmon"
	"github.com/jessevdk/go-flags"
)

func main() {
	if err := execute(); err != nil {
		log.Fatalf("Unhandled error: %s", err)
	}
}

type Options struct {
	Net     bool    `short:"n" long:"net" description:"Include network filesystems (nfs, cifs, sshfs ...)"`
	Time    float64 `short:"t" long:"time" default:"2.0" description:"Refresh interval in seconds"`
	Batch   bool    `short:"b" long:"batch" description:"Append frames instead of refreshing the terminal in place"`
	Version bool    `short:"V" long:"version" description:"Print version and exists"`
	Verbose []bool  `short:"v" long:"verbose" description:"Enable more verbose output (can be set multiple times)"`
}

func (o *Options) DiskmonConfig() (diskmon.Config, error) {
	interval := time.Duration(o.Time * float64(time.Second))
	if interval < diskmon.MIN_REFRESH_INTERVAL {
		return diskmon.Config{}, fmt.Errorf("refresh interval %gs is below the minimum %s",
			o.Time, diskmon.MIN_REFRESH_INTERVAL)
	}

	res := diskmon.DefaultConfig
	res.RefreshInterval = interval
	res.IncludeNetwork = o.Net
	res.Batch = o.Batch
	return res, nil
}

func execute() error {
	opts := &Options{}
	if _, err := flags.Parse(opts); err != nil {
		if flags.WroteHelp(err) == true {
			return nil
		}
		return err
	}

	if opts.Version == true {
		fmt.Printf("diskmon %s\n", diskmon.DISKMON_VERSION)
		return nil
	}

	setUpLogger(len(opts.Verbose))

	config, err := opts.DiskmonConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return <-Start(NewMonitor(ctx, config))
}
