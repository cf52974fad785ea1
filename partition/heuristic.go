package partition

import (
	"fmt"
	"sort"

	"github.com/ma-chengyuan/optift/bitset"
)

// hPartition is the heuristic solver's per-partition state: its item
// bitset and the sorted, deduplicated list of request indices that still
// have any item inside it. reqs is kept as a sorted slice rather than a
// map so that iterating it never depends on Go's randomized map order —
// the running cost must come out bit-identical run over run on identical
// inputs, which a map-ordered float accumulation would not give us.
type hPartition struct {
	reqs  []int
	items *bitset.Set
}

func containsSorted(xs []int, x int) bool {
	i := sort.SearchInts(xs, x)
	return i < len(xs) && xs[i] == x
}

// mergeSorted returns the sorted union of two already-sorted,
// already-deduplicated int slices.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// SolveHeuristic runs local search from initialSoln to a local optimum,
// repeatedly moving all items of one request out of their current
// partition into a better one. It returns a solution with cost no worse
// than initialSoln's. initialSoln must already be valid; an invalid
// initial solution fails with ErrInvalidSolution from the first Evaluate
// call.
func SolveHeuristic(inst *Instance, initialSoln Soln) (Soln, error) {
	curCost, err := inst.Evaluate(initialSoln)
	if err != nil {
		return Soln{}, fmt.Errorf("partition: invalid initial solution: %w", err)
	}

	reqItems := make([]*bitset.Set, len(inst.Requests))
	for c, req := range inst.Requests {
		reqItems[c] = bitset.NewFrom(inst.NItems, req.Items...)
	}

	// item -> sorted list of request ids, built once, append-only, so
	// iteration order never depends on map ordering.
	itemToReqs := make([][]int, inst.NItems)
	for c, req := range inst.Requests {
		for _, item := range req.Items {
			itemToReqs[item] = append(itemToReqs[item], c)
		}
	}

	parts := make([]hPartition, inst.NPartitions)
	for p := range parts {
		parts[p] = hPartition{items: bitset.New(inst.NItems)}
	}
	for p, part := range initialSoln.Partitions {
		var reqs []int
		seen := make(map[int]bool)
		for _, item := range part.ToSlice() {
			parts[p].items.Set(item)
			for _, c := range itemToReqs[item] {
				if !seen[c] {
					seen[c] = true
					reqs = append(reqs, c)
				}
			}
		}
		sort.Ints(reqs)
		parts[p].reqs = reqs
	}

	cost := inst.Cost.Eval

	type move struct {
		i, j  int
		newP1 hPartition
		newP2 hPartition
	}

	for improved := true; improved; {
		improved = false
		for c := range inst.Requests {
			items := reqItems[c]

			bestCost := curCost
			var best *move

			for i := range parts {
				p1 := parts[i]
				retained, removed := p1.items.DiffIntersect(items)

				var reqsRetained []int
				var reqsAffected []int
				var reqsRetainedWeight, reqsRemovedWeight float64
				for _, u := range p1.reqs {
					w := inst.Requests[u].Weight
					if reqItems[u].IsDisjoint(retained) {
						reqsRemovedWeight += w
					} else {
						reqsRetainedWeight += w
						reqsRetained = append(reqsRetained, u)
					}
					if !reqItems[u].IsDisjoint(removed) {
						reqsAffected = append(reqsAffected, u)
					}
				}

				sizeBefore := p1.items.Size()
				sizeAfter := retained.Size()
				costAfterBan := curCost -
					reqsRemovedWeight*cost(sizeBefore) -
					reqsRetainedWeight*(cost(sizeBefore)-cost(sizeAfter))

				for j := range parts {
					if i == j {
						continue
					}
					p2 := parts[j]
					extended := p2.items.Union(removed)

					sizeBeforeJ := p2.items.Size()
					sizeAfterJ := extended.Size()

					var reqsExistingWeight float64
					for _, u := range p2.reqs {
						reqsExistingWeight += inst.Requests[u].Weight
					}
					var reqsExtendedWeight float64
					for _, u := range reqsAffected {
						if !containsSorted(p2.reqs, u) {
							reqsExtendedWeight += inst.Requests[u].Weight
						}
					}

					costAfterAdd := costAfterBan +
						(cost(sizeAfterJ)-cost(sizeBeforeJ))*reqsExistingWeight +
						cost(sizeAfterJ)*reqsExtendedWeight

					if costAfterAdd < bestCost {
						bestCost = costAfterAdd
						best = &move{
							i: i,
							j: j,
							newP1: hPartition{
								reqs:  append([]int(nil), reqsRetained...),
								items: retained,
							},
							newP2: hPartition{
								reqs:  mergeSorted(p2.reqs, reqsAffected),
								items: extended,
							},
						}
					}
				}
			}

			if best != nil {
				parts[best.i] = best.newP1
				parts[best.j] = best.newP2
				curCost = bestCost
				improved = true
			}
		}
	}

	partitions := make([]*bitset.Set, len(parts))
	for p, hp := range parts {
		partitions[p] = hp.items
	}
	sort.SliceStable(partitions, func(i, j int) bool {
		return partitions[i].Size() > partitions[j].Size()
	})

	return Soln{Partitions: partitions}, nil
}
