package scan

import (
	"encoding/hex"
	"runtime"
)

// FileEntry is a candidate file found during enumeration.
type FileEntry struct {
	Path string // absolute, OS-native
	Size uint64
}

// SizeGroups partitions entries by exact byte length.
type SizeGroups map[uint64][]FileEntry

// SizeBucket is one multi-member size partition, ready for hashing.
type SizeBucket struct {
	Size  uint64
	Files []FileEntry
}

// Digest is a partial-content fingerprint.
type Digest [16]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// FileRef is a member of a duplicate group.
type FileRef struct {
	Path string `json:"path"`
	Size uint64 `json:"size"`
}

// DuplicateGroup is a set of at least two files sharing a size and digest.
type DuplicateGroup struct {
	Size  uint64    `json:"size"`
	Hash  string    `json:"hash"`
	Files []FileRef `json:"files"`
}

// Diagnostic records a failure that was recovered locally: an unreadable
// subtree or a file that could not be hashed.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string { return d.Path + ": " + d.Err.Error() }

// Result is the outcome of one scan.
type Result struct {
	Root        string
	Duplicates  []DuplicateGroup
	Diagnostics []Diagnostic
	Stats       Stats
}

// Report is the wire shape of a scan result.
type Report struct {
	Duplicates []DuplicateGroup `json:"duplicates"`
}

// Report returns the JSON view of the result. Duplicates is never nil so an
// empty scan encodes as `{"duplicates":[]}`.
func (r *Result) Report() Report {
	dups := r.Duplicates
	if dups == nil {
		dups = []DuplicateGroup{}
	}
	return Report{Duplicates: dups}
}

// Fingerprinter computes the partial digest of a file of known size.
type Fingerprinter interface {
	Fingerprint(path string, size uint64) (Digest, error)
}

// Options contains scan parameters. The zero value scans for video files with
// default concurrency.
type Options struct {
	Accept          func(path string) bool // content-type predicate; nil means media.IsVideo
	MaxWorkers      int                    // hashing pool size
	WalkWorkers     int                    // concurrent directory reads
	BufferSize      int                    // task channel buffer
	MinSize         uint64                 // minimum file size, 0 disables
	MaxSize         uint64                 // maximum file size, 0 disables
	ExcludeHidden   bool                   // skip dot files and dot directories
	ExcludeDirs     []string               // absolute path prefixes to skip
	VerifyThreshold uint64                 // full-verify groups at least this large, 0 disables
	Hasher          Fingerprinter          // nil means PartialHasher with DefaultWindow
	Observer        Observer               // nil means no progress reporting
}

const maxDefaultWorkers = 16

func (o Options) withDefaults() Options {
	if o.Accept == nil {
		o.Accept = defaultAccept
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = 2 * runtime.NumCPU()
		if o.MaxWorkers > maxDefaultWorkers {
			o.MaxWorkers = maxDefaultWorkers
		}
	}
	if o.WalkWorkers <= 0 {
		o.WalkWorkers = runtime.NumCPU()
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 1000
	}
	if o.Hasher == nil {
		o.Hasher = PartialHasher{}
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o
}
