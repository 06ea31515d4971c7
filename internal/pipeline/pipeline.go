// Package pipeline holds the scaffolding every dobutsu-* stage shares:
// a bare stderr logger matching the original tool's log! macro, and
// humanized progress-counter formatting, grounded on the shape of
// tablebase/download.go's hand-rolled FormatBytes but using
// dustin/go-humanize (already pulled in transitively by badger)
// instead of reimplementing it.
package pipeline

import (
	"log"
	"os"

	"github.com/dustin/go-humanize"
)

// NewLogger returns a stderr logger with no timestamp or level prefix,
// matching the original tool's log! macro (a bare writeln! to stderr)
// the same way cmd/chessplay-uci/main.go's log.Printf calls assume a
// plain, unprefixed stream.
func NewLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

// Comma formats n with thousands separators, e.g. for board counts in
// the tens of millions.
func Comma(n int) string {
	return humanize.Comma(int64(n))
}

// Progress is a periodic-report helper: Tick increments a running
// count and, every `every` ticks, calls report with the current count.
// Stage 1's "every 10,000,000 boards" and Stage 2's "every 10,000,000
// loaded" log lines are both instances of this shape.
type Progress struct {
	every  int
	count  int
	report func(count int)
}

// NewProgress returns a Progress that invokes report every `every`
// ticks. An every <= 0 disables reporting.
func NewProgress(every int, report func(count int)) *Progress {
	return &Progress{every: every, report: report}
}

// Tick advances the count by one and reports if a boundary was hit.
func (p *Progress) Tick() {
	p.count++
	if p.every > 0 && p.count%p.every == 0 {
		p.report(p.count)
	}
}

// Count returns the current tick count.
func (p *Progress) Count() int {
	return p.count
}
