package scan

import (
	"context"
	"fmt"
	"sync"

	"videodupes/internal/logging"
)

// runPool calls fn(i) for i in [0, n) on at most workers goroutines. It
// stops handing out work once ctx is done and returns ctx.Err() in that case.
func runPool(ctx context.Context, n, workers, buffer int, fn func(i int)) error {
	if n == 0 {
		return ctx.Err()
	}
	if workers > n {
		workers = n
	}

	tasks := make(chan int, buffer)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				if ctx.Err() != nil {
					continue
				}
				fn(i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case tasks <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	return ctx.Err()
}

// hashOutcome is the fingerprint of one candidate.
type hashOutcome struct {
	digest Digest
	err    error
}

// hashTask locates a candidate inside the bucket list.
type hashTask struct {
	bucket int
	index  int
}

// hashBuckets fingerprints every file of every bucket on a bounded pool.
// Outcomes are written to distinct pre-allocated slots, so no locking is
// needed.
func hashBuckets(ctx context.Context, buckets []SizeBucket, opts Options) ([][]hashOutcome, error) {
	outcomes := make([][]hashOutcome, len(buckets))
	tasks := make([]hashTask, 0, candidates(buckets))
	for b, bucket := range buckets {
		outcomes[b] = make([]hashOutcome, len(bucket.Files))
		for i := range bucket.Files {
			tasks = append(tasks, hashTask{b, i})
		}
	}

	err := runPool(ctx, len(tasks), opts.MaxWorkers, opts.BufferSize, func(i int) {
		t := tasks[i]
		entry := buckets[t.bucket].Files[t.index]
		d, err := safeFingerprint(opts.Hasher, entry)
		outcomes[t.bucket][t.index] = hashOutcome{digest: d, err: err}
		opts.Observer.FileHashed(entry.Path, err)
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// safeFingerprint turns a panicking hasher into a per-file error.
func safeFingerprint(h Fingerprinter, e FileEntry) (d Digest, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Panic while calculating hash for %s: %v", e.Path, r)
			err = &IoError{Op: "hashing", Path: e.Path, Err: fmt.Errorf("hash calculation failed: %v", r)}
		}
	}()
	return h.Fingerprint(e.Path, e.Size)
}
