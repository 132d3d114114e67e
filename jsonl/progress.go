package jsonl

import (
	"fmt"
	"io"
	"os"

	"github.com/byu-imaal/dns-cookies-pam21/utils"
	"github.com/byu-imaal/dns-cookies-pam21/utils/logger"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Progress reports scan position against the pre-pass line total. On a
// terminal it redraws a single stderr line every percent; elsewhere it
// logs at debug level in coarser steps so piped runs stay quiet.
type Progress struct {
	total   int64
	done    int64
	step    int
	lastPct int
	tty     bool
	out     io.Writer
}

func NewProgress(total int64) *Progress {
	p := &Progress{total: total, lastPct: -1}
	p.tty = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if p.tty {
		p.out = colorable.NewColorable(os.Stderr)
	}
	p.step = utils.Ternary(p.tty, 1, 5).(int)
	return p
}

// Tick advances the meter by one processed line.
func (p *Progress) Tick() {
	p.done++
	if p.total <= 0 {
		return
	}
	pct := int(p.done * 100 / p.total)
	if pct < p.lastPct+p.step && pct != 100 {
		return
	}
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct
	if p.tty {
		fmt.Fprintf(p.out, "\rprocessed %3d%% (%d/%d lines)", pct, p.done, p.total)
		return
	}
	logger.Debugf("processed %d%% (%d/%d lines)", pct, p.done, p.total)
}

// Finish terminates the meter line so later stderr writes start clean.
// Output flushing waits for this, keeping records and progress unmixed.
func (p *Progress) Finish() {
	if p.tty && p.lastPct >= 0 {
		fmt.Fprintln(p.out)
	}
}
