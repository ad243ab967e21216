package scan

import "sort"

// GroupBySize partitions entries by exact size, keeping enumeration order
// within each size.
func GroupBySize(entries []FileEntry) SizeGroups {
	groups := make(SizeGroups)
	for _, e := range entries {
		groups[e.Size] = append(groups[e.Size], e)
	}
	return groups
}

// Buckets returns the groups that could hold duplicates, largest size first.
// Single-member groups are dropped here so they never reach the hasher.
func (g SizeGroups) Buckets() []SizeBucket {
	buckets := make([]SizeBucket, 0, len(g))
	for size, files := range g {
		if len(files) < 2 {
			continue
		}
		buckets = append(buckets, SizeBucket{Size: size, Files: files})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Size > buckets[j].Size
	})
	return buckets
}

// candidates counts the files across buckets.
func candidates(buckets []SizeBucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Files)
	}
	return n
}
