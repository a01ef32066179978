package main

import (
	"fmt"
	"os"

	"github.com/atuleu/go-tablifier"
	"golang.org/x/term"
)

// A Row is one line of the monitor table, all columns already
// formatted.
type Row struct {
	Device     string
	Mountpoint string `name:"Mount Point"`
	Used       string
	Available  string
	Total      string
	Usage      string `name:"Use%"`
	ReadOps    string `name:"Read ops/s"`
	WriteOps   string `name:"Write ops/s"`
	ReadKB     string `name:"Read KB/s"`
	WriteKB    string `name:"Write KB/s"`
}

// A Display renders rows on the terminal, erasing the previous frame
// so the table refreshes in place. In batch mode frames are appended
// instead, which is also what happens when stdout is not a terminal.
type Display struct {
	batch bool
}

func NewDisplay(batch bool) *Display {
	if term.IsTerminal(int(os.Stdout.Fd())) == false {
		batch = true
	}
	return &Display{batch: batch}
}

const clearScreen = "\033[H\033[J"

// Render prints one frame of the monitor table, rows in the order
// given.
func (d *Display) Render(rows []Row) {
	d.Clear()
	tablifier.Tablify(rows)
}

// ReportError prints a one-line annotation below the current frame.
// The next frame erases it.
func (d *Display) ReportError(msg string) {
	fmt.Printf("\033[1;31mERROR:\033[m %s\n", msg)
}

// Clear erases the screen, so that no partial frame is left behind on
// shutdown. It does nothing in batch mode.
func (d *Display) Clear() {
	if d.batch == true {
		return
	}
	fmt.Print(clearScreen)
}
