package mapreduce

import "slices"

// Partition splits input into at most workers contiguous, non-overlapping
// chunks. When len(input) is not a multiple of workers the first
// len(input)%workers chunks get one extra element. Chunks that would be empty
// (fewer elements than workers) are not produced, so an empty input yields no
// chunks at all.
func Partition[T any](input []T, workers int) ([]WorkItem[T], error) {
	if workers <= 0 {
		return nil, invalidConfig("worker count must be positive, got %d", workers)
	}
	n := len(input)
	if n == 0 {
		return nil, nil
	}
	count := min(workers, n)
	base, extra := n/workers, n%workers
	out := make([]WorkItem[T], 0, count)
	start := 0
	for i := 0; i < count; i++ {
		size := base
		if i < extra {
			size++
		}
		out = append(out, WorkItem[T]{
			Index: i,
			Items: slices.Clone(input[start : start+size]),
		})
		start += size
	}
	return out, nil
}
