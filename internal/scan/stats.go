package scan

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Stats summarizes one scan.
type Stats struct {
	Directories int            // directories read
	Files       int            // non-directory entries seen
	Accepted    int            // files passing the content-type and size filters
	Bytes       uint64         // total size of accepted files
	Candidates  int            // files in multi-member size buckets
	Hashed      int            // candidates fingerprinted successfully
	Failed      int            // candidates dropped on hashing errors
	Extensions  map[string]int // accepted files per lower-cased extension
	Elapsed     time.Duration
}

// statsCollector accumulates Stats from concurrent walkers.
type statsCollector struct {
	sync.Mutex
	s Stats
}

func newStatsCollector() *statsCollector {
	return &statsCollector{s: Stats{Extensions: make(map[string]int)}}
}

// addDirectory records one directory listing.
func (c *statsCollector) addDirectory(entries []os.DirEntry) {
	files := 0
	for _, e := range entries {
		if !e.IsDir() {
			files++
		}
	}

	c.Lock()
	c.s.Directories++
	c.s.Files += files
	c.Unlock()
}

func (c *statsCollector) addAccepted(e FileEntry) {
	ext := strings.ToLower(filepath.Ext(e.Path))

	c.Lock()
	c.s.Accepted++
	c.s.Bytes += e.Size
	c.s.Extensions[ext]++
	c.Unlock()
}

func (c *statsCollector) snapshot() Stats {
	c.Lock()
	defer c.Unlock()
	s := c.s
	s.Extensions = make(map[string]int, len(c.s.Extensions))
	for k, v := range c.s.Extensions {
		s.Extensions[k] = v
	}
	return s
}
