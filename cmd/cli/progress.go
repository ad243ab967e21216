package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressObserver renders scan progress: a spinner while enumerating and
// verifying, and a counted bar while hashing.
type progressObserver struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressObserver(w io.Writer) *progressObserver {
	return &progressObserver{w: w, bar: newBar(w, -1, "Scanning")}
}

func newBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressObserver) ScanningDirectory(root string) {
	p.bar.Describe("Scanning " + root)
}

func (p *progressObserver) Enumerated(files int) {
	p.bar.Finish()
}

// Hashing runs before any FileHashed call, so swapping the bar is safe.
func (p *progressObserver) Hashing(candidates int) {
	p.bar = newBar(p.w, candidates, "Hashing")
}

func (p *progressObserver) FileHashed(string, error) {
	p.bar.Add(1)
}

func (p *progressObserver) Verifying(files int) {
	p.bar.Finish()
	p.bar = newBar(p.w, -1, fmt.Sprintf("Verifying %d files", files))
}

func (p *progressObserver) Close() {
	p.bar.Finish()
}
