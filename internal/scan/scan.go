package scan

import (
	"context"
	"time"

	"videodupes/internal/logging"
)

// Scan finds duplicate files under root. It fails only when root is missing
// or unreadable (ErrNotFound, ErrPermission) or when ctx is cancelled;
// failures below root are recovered and listed in Result.Diagnostics.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	start := time.Now()
	opts = opts.withDefaults()

	stats := newStatsCollector()
	w := newWalker(opts, stats)
	entries, err := w.enumerate(ctx, root)
	if err != nil {
		return nil, err
	}
	diags := w.diagnostics()
	opts.Observer.Enumerated(len(entries))

	buckets := GroupBySize(entries).Buckets()
	n := candidates(buckets)
	logging.WithField("root", root).Infof(
		"found %d files, %d candidates in %d size buckets",
		len(entries), n, len(buckets),
	)
	opts.Observer.Hashing(n)

	outcomes, err := hashBuckets(ctx, buckets, opts)
	if err != nil {
		return nil, err
	}

	var groups []DuplicateGroup
	failed := 0
	for b, bucket := range buckets {
		g, d := assemble(bucket, outcomes[b])
		groups = append(groups, g...)
		diags = append(diags, d...)
		failed += len(d)
	}

	if opts.VerifyThreshold > 0 {
		var d []Diagnostic
		if groups, d, err = verifyGroups(ctx, groups, opts.VerifyThreshold, opts); err != nil {
			return nil, err
		}
		diags = append(diags, d...)
	}

	result := &Result{
		Root:        w.root,
		Duplicates:  groups,
		Diagnostics: diags,
		Stats:       stats.snapshot(),
	}
	result.Stats.Candidates = n
	result.Stats.Hashed = n - failed
	result.Stats.Failed = failed
	result.Stats.Elapsed = time.Since(start)

	logging.WithField("root", result.Root).Infof(
		"scan finished: %d duplicate groups, %d diagnostics in %s",
		len(groups), len(diags), result.Stats.Elapsed,
	)
	return result, nil
}
