package scan

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash"
	"github.com/edsrzf/mmap-go"

	"videodupes/internal/logging"
)

// fullHash hashes the whole file, mapping it into memory when possible.
func fullHash(path string) (sum uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &IoError{Op: "opening", Path: path, Err: err}
	}
	defer closeFile(f, path, &err)

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err == nil {
		defer data.Unmap()
		return xxhash.Sum64(data), nil
	}
	logging.Debugf("Failed to mmap file %s, streaming instead: %v", path, err)

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, &IoError{Op: "reading", Path: path, Err: err}
	}
	return h.Sum64(), nil
}

// verifyGroups re-checks groups of at least threshold bytes against full
// content hashes. A group whose members differ is split; members that cannot
// be read are dropped. Group order is preserved.
func verifyGroups(ctx context.Context, groups []DuplicateGroup, threshold uint64, opts Options) ([]DuplicateGroup, []Diagnostic, error) {
	type member struct{ group, index int }
	var members []member
	for g, group := range groups {
		if !needsVerify(group, threshold) {
			continue
		}
		for i := range group.Files {
			members = append(members, member{g, i})
		}
	}
	if len(members) == 0 {
		return groups, nil, nil
	}
	opts.Observer.Verifying(len(members))

	sums := make([][]uint64, len(groups))
	errs := make([][]error, len(groups))
	for g, group := range groups {
		if needsVerify(group, threshold) {
			sums[g] = make([]uint64, len(group.Files))
			errs[g] = make([]error, len(group.Files))
		}
	}

	err := runPool(ctx, len(members), opts.MaxWorkers, opts.BufferSize, func(i int) {
		m := members[i]
		sums[m.group][m.index], errs[m.group][m.index] = fullHash(groups[m.group].Files[m.index].Path)
	})
	if err != nil {
		return nil, nil, err
	}

	var (
		out   []DuplicateGroup
		diags []Diagnostic
	)
	for g, group := range groups {
		if sums[g] == nil {
			out = append(out, group)
			continue
		}

		var order []uint64
		bySum := make(map[uint64][]FileRef)
		for i, f := range group.Files {
			if err := errs[g][i]; err != nil {
				logging.WithField("path", f.Path).Warnf("dropping file from verification: %v", err)
				diags = append(diags, Diagnostic{Path: f.Path, Err: err})
				continue
			}
			s := sums[g][i]
			if _, seen := bySum[s]; !seen {
				order = append(order, s)
			}
			bySum[s] = append(bySum[s], f)
		}
		split := len(order) > 1
		if split {
			logging.Infof("Partial hash %s split into %d groups by full content", group.Hash, len(order))
		}
		for _, s := range order {
			if len(bySum[s]) < 2 {
				continue
			}
			hash := group.Hash
			if split {
				hash = fmt.Sprintf("%s-%016x", group.Hash, s)
			}
			out = append(out, DuplicateGroup{
				Size:  group.Size,
				Hash:  hash,
				Files: bySum[s],
			})
		}
	}
	return out, diags, nil
}

func needsVerify(g DuplicateGroup, threshold uint64) bool {
	return threshold > 0 && g.Size > 0 && g.Size >= threshold
}
