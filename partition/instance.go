// Package partition implements the partition optimizer's data model and
// both solvers: a fixed universe of items, weighted page requests over
// them, a pure evaluator scoring any candidate partition against that
// demand, a trivial baseline, and a local-search heuristic.
package partition

import (
	"errors"
	"fmt"
	"math"

	"github.com/ma-chengyuan/optift/bitset"
	"github.com/ma-chengyuan/optift/costmodel"
)

// ErrInvalidSolution is returned by Evaluate (and checked as a
// precondition by SolveHeuristic) when a PartitionSoln's partition count,
// item range, or coverage is wrong.
var ErrInvalidSolution = errors.New("partition: invalid solution")

// ErrDegenerateDemand is returned by BuildInstance when every request is
// empty or the total request weight is zero or non-finite.
var ErrDegenerateDemand = errors.New("partition: degenerate demand")

// Request is one page's weighted demand for a set of items. Weight is
// normalized to sum to 1 across all requests inside an Instance; Items
// must be non-empty when passed to BuildInstance (empty requests are
// silently dropped).
type Request struct {
	Weight float64
	Items  []int
}

// Soln is a candidate partition: exactly NPartitions disjoint sets of
// item ids whose union is [0, NItems).
type Soln struct {
	Partitions []*bitset.Set
}

// Instance is an immutable partition problem: a fixed number of
// partitions, a fixed item universe, normalized weighted demand over it,
// and a cost model scoring partition sizes.
type Instance struct {
	NPartitions int
	NItems      int
	Requests    []Request
	Cost        costmodel.Model
}

// BuildInstance normalizes requests' weights to sum to 1 and drops empty
// requests. It fails with ErrDegenerateDemand if every request is empty
// or the total weight is zero or non-finite.
func BuildInstance(nPartitions, nItems int, requests []Request, cost costmodel.Model) (*Instance, error) {
	if nPartitions < 1 {
		return nil, fmt.Errorf("partition: n_partitions must be >= 1, got %d", nPartitions)
	}

	kept := make([]Request, 0, len(requests))
	var total float64
	for _, r := range requests {
		if len(r.Items) == 0 {
			continue
		}
		for _, item := range r.Items {
			if item < 0 || item >= nItems {
				return nil, fmt.Errorf("partition: item id %d out of range [0,%d)", item, nItems)
			}
		}
		kept = append(kept, r)
		total += r.Weight
	}

	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, ErrDegenerateDemand
	}

	for i := range kept {
		kept[i].Weight /= total
	}

	return &Instance{
		NPartitions: nPartitions,
		NItems:      nItems,
		Requests:    kept,
		Cost:        cost,
	}, nil
}

// Evaluate scores soln against the instance's demand: each request pays
// the summed cost of every partition its items touch, weighted, summed
// over all requests. Accumulation proceeds in request order, then
// partition-index order within each request, so repeated evaluations of
// identical inputs are bit-reproducible.
func (inst *Instance) Evaluate(soln Soln) (float64, error) {
	if len(soln.Partitions) != inst.NPartitions {
		return 0, fmt.Errorf("%w: expected %d partitions, got %d", ErrInvalidSolution, inst.NPartitions, len(soln.Partitions))
	}

	itemToPartition := make([]int, inst.NItems)
	for i := range itemToPartition {
		itemToPartition[i] = -1
	}
	covered := 0
	for p, part := range soln.Partitions {
		if part.Len() != inst.NItems {
			return 0, fmt.Errorf("%w: partition %d has universe size %d, want %d", ErrInvalidSolution, p, part.Len(), inst.NItems)
		}
		for _, item := range part.ToSlice() {
			if itemToPartition[item] != -1 {
				return 0, fmt.Errorf("%w: item %d appears in both partitions %d and %d", ErrInvalidSolution, item, itemToPartition[item], p)
			}
			itemToPartition[item] = p
			covered++
		}
	}
	if covered != inst.NItems {
		return 0, fmt.Errorf("%w: covered %d of %d items", ErrInvalidSolution, covered, inst.NItems)
	}

	partitionCost := make([]float64, inst.NPartitions)
	for p, part := range soln.Partitions {
		partitionCost[p] = inst.Cost.Eval(part.Size())
	}

	var total float64
	for _, req := range inst.Requests {
		touched := make([]bool, inst.NPartitions)
		for _, item := range req.Items {
			touched[itemToPartition[item]] = true
		}
		var sum float64
		for p := 0; p < inst.NPartitions; p++ {
			if touched[p] {
				sum += partitionCost[p]
			}
		}
		total += req.Weight * sum
	}
	return total, nil
}
