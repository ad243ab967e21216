package scan

import (
	"context"

	"videodupes/internal/logging"
)

// Assemble fingerprints one size bucket and returns its duplicate groups.
// Files that fail to hash are excluded and reported as diagnostics.
func Assemble(ctx context.Context, bucket SizeBucket, opts Options) ([]DuplicateGroup, []Diagnostic, error) {
	opts = opts.withDefaults()
	outcomes, err := hashBuckets(ctx, []SizeBucket{bucket}, opts)
	if err != nil {
		return nil, nil, err
	}
	groups, diags := assemble(bucket, outcomes[0])
	return groups, diags, nil
}

// assemble groups a bucket's files by digest. Groups come out in the order
// their digest was first seen; files keep bucket order.
func assemble(bucket SizeBucket, outcomes []hashOutcome) ([]DuplicateGroup, []Diagnostic) {
	var (
		diags  []Diagnostic
		order  []Digest
		byHash = make(map[Digest][]FileRef)
	)

	for i, entry := range bucket.Files {
		o := outcomes[i]
		if o.err != nil {
			logging.WithField("path", entry.Path).Warnf("dropping file: %v", o.err)
			diags = append(diags, Diagnostic{Path: entry.Path, Err: o.err})
			continue
		}
		if _, seen := byHash[o.digest]; !seen {
			order = append(order, o.digest)
		}
		byHash[o.digest] = append(byHash[o.digest], FileRef{Path: entry.Path, Size: entry.Size})
	}

	var groups []DuplicateGroup
	for _, d := range order {
		files := byHash[d]
		if len(files) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Size:  bucket.Size,
			Hash:  d.String(),
			Files: files,
		})
	}
	return groups, diags
}
