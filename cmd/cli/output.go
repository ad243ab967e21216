package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"videodupes/internal/scan"
	"videodupes/internal/trash"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// reclaimable is the space freed by keeping one copy per group.
func reclaimable(groups []scan.DuplicateGroup) uint64 {
	var total uint64
	for _, g := range groups {
		total += g.Size * uint64(len(g.Files)-1)
	}
	return total
}

func printResult(w io.Writer, r *scan.Result) {
	for i, g := range r.Duplicates {
		headerColor.Fprintf(w, "Group %d: %d files, %s each\n", i+1, len(g.Files), humanize.IBytes(g.Size))
		for _, f := range g.Files {
			fmt.Fprintf(w, "  %s\n", f.Path)
		}
		fmt.Fprintln(w)
	}

	for _, d := range r.Diagnostics {
		warnColor.Fprintf(w, "Skipped %s\n", d)
	}

	s := r.Stats
	fmt.Fprintf(w, "Scanned %d files (%s) in %d directories, %d candidates hashed in %s\n",
		s.Accepted, humanize.IBytes(s.Bytes), s.Directories, s.Hashed, s.Elapsed.Round(time.Millisecond))
	if len(r.Duplicates) == 0 {
		fmt.Fprintln(w, "No duplicates found")
		return
	}
	fmt.Fprintf(w, "Found %d duplicate groups, %s reclaimable\n",
		len(r.Duplicates), humanize.IBytes(reclaimable(r.Duplicates)))
}

func printOutcomes(w io.Writer, outcomes []trash.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			failColor.Fprintf(w, "Failed: %v\n", o.Err)
			continue
		}
		okColor.Fprintf(w, "Trashed: %s\n", o.Path)
	}
}
