// Package report turns a finished partition.Soln back into codepoint
// groups an external emitter can subset and serve. Non-empty partitions
// are reordered by descending size, and that reordered position is what
// MaterializeSubsets and any downstream emitter should use in output
// file naming.
package report

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/ma-chengyuan/optift/face"
	"github.com/ma-chengyuan/optift/partition"
)

// Group is one emitted partition: its sorted codepoints, in the output
// order the emitter should use.
type Group struct {
	Codepoints []rune `json:"codepoints"`
}

// Report is the reporting adapter's output: non-empty partitions ordered
// by descending size, plus a codepoint -> output-index map.
type Report struct {
	Groups         []Group
	CodepointIndex map[rune]int
}

// BuildReport converts soln into a Report using itemToCodepoint to map
// item ids back to codepoints. Empty partitions are dropped entirely;
// the remaining ones are ordered by descending size (ties keep their
// original partition order, matching the stable sort the heuristic
// solver itself performs at the end of its run).
func BuildReport(soln partition.Soln, itemToCodepoint []rune) Report {
	var groups []Group
	for _, part := range soln.Partitions {
		items := part.ToSlice()
		if len(items) == 0 {
			continue
		}
		codepoints := make([]rune, len(items))
		for i, item := range items {
			codepoints[i] = itemToCodepoint[item]
		}
		sort.Slice(codepoints, func(i, j int) bool { return codepoints[i] < codepoints[j] })
		groups = append(groups, Group{Codepoints: codepoints})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Codepoints) > len(groups[j].Codepoints)
	})

	codepointIndex := make(map[rune]int)
	for i, g := range groups {
		for _, c := range g.Codepoints {
			codepointIndex[c] = i
		}
	}

	return Report{Groups: groups, CodepointIndex: codepointIndex}
}

// MaterializeSubsets subsets f once per group in r through sub, using the
// same bounded-worker-pool pattern as sampler.Harness: a semaphore
// channel sized to GOMAXPROCS, a WaitGroup, and a results channel, with
// Subset called outside any lock. The returned slice is indexed the same
// way as r.Groups.
func MaterializeSubsets(ctx context.Context, r Report, f face.Face, sub face.Subsetter) ([][]byte, error) {
	out := make([][]byte, len(r.Groups))
	if len(r.Groups) == 0 {
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	type result struct {
		index int
		data  []byte
		err   error
	}
	results := make(chan result, len(r.Groups))

	var wg sync.WaitGroup
	for i, g := range r.Groups {
		wg.Add(1)
		go func(i int, g Group) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- result{index: i, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				results <- result{index: i, err: ctx.Err()}
				return
			default:
			}

			data, err := sub.Subset(ctx, f, g.Codepoints)
			if err != nil {
				results <- result{index: i, err: fmt.Errorf("%w: %v", face.ErrExternalSubset, err)}
				return
			}
			results <- result{index: i, data: data}
		}(i, g)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		out[res.index] = res.data
	}
	return out, nil
}
