package partition

import "github.com/ma-chengyuan/optift/bitset"

// SolveBaseline returns the trivial "one big subset" solution: every item
// in partition 0, every other partition empty. It serves both as a seed
// for SolveHeuristic and as a benchmark.
func SolveBaseline(inst *Instance) Soln {
	partitions := make([]*bitset.Set, inst.NPartitions)
	for p := range partitions {
		partitions[p] = bitset.New(inst.NItems)
	}
	for i := 0; i < inst.NItems; i++ {
		partitions[0].Set(i)
	}
	return Soln{Partitions: partitions}
}
