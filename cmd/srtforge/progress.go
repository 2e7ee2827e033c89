package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"srtforge/internal/batch"
)

// progressPrinter serializes batch events and progress-bar redraws onto one
// writer so event lines never tear through a half-drawn bar.
type progressPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
	bar      *progressbar.ProgressBar
}

func newProgressPrinter(out io.Writer, colorize bool) *progressPrinter {
	return &progressPrinter{out: out, colorize: colorize}
}

func (p *progressPrinter) handle(event batch.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintln(p.out, renderEventLine(event, p.colorize))
}

func (p *progressPrinter) attachBar(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressPrinter) updateBar(processed int, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	p.bar.Describe(description)
	_ = p.bar.Set(processed)
}

func (p *progressPrinter) detachBar() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	_ = p.bar.Clear()
	p.bar = nil
}
