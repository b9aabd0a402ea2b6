package mapreduce

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkItems[T any](items []WorkItem[T]) [][]T {
	out := make([][]T, len(items))
	for i, item := range items {
		out[i] = item.Items
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		workers int
		expect  [][]int
	}{
		{
			name:    "evenly divisible",
			input:   []int{1, 2, 3, 4, 5, 6, 7, 8},
			workers: 4,
			expect:  [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
		},
		{
			name:    "earlier chunks absorb the remainder",
			input:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			workers: 4,
			expect:  [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8}, {9, 10}},
		},
		{
			name:    "single worker",
			input:   []int{1, 2, 3},
			workers: 1,
			expect:  [][]int{{1, 2, 3}},
		},
		{
			name:    "more workers than items",
			input:   []int{1, 2},
			workers: 5,
			expect:  [][]int{{1}, {2}},
		},
		{
			name:    "empty input",
			input:   nil,
			workers: 4,
			expect:  [][]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Partition(tt.input, tt.workers)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expect, chunkItems(items)); diff != "" {
				t.Fatal(diff)
			}
			for i, item := range items {
				assert.Equal(t, i, item.Index)
			}
		})
	}
}

func TestPartitionInvalidWorkerCount(t *testing.T) {
	for _, workers := range []int{0, -1} {
		items, err := Partition([]int{1, 2, 3}, workers)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.Nil(t, items)
	}
}

// Concatenating the chunks in order must reconstruct the input exactly.
func TestPartitionReconstructsInput(t *testing.T) {
	for n := 0; n <= 40; n++ {
		input := make([]int, n)
		for i := range input {
			input[i] = i * 7
		}
		for workers := 1; workers <= 12; workers++ {
			t.Run(fmt.Sprintf("n=%d/workers=%d", n, workers), func(t *testing.T) {
				items, err := Partition(input, workers)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(items), workers)

				var joined []int
				maxLen, minLen := 0, n+1
				for _, item := range items {
					joined = append(joined, item.Items...)
					maxLen = max(maxLen, item.Len())
					minLen = min(minLen, item.Len())
				}
				if diff := cmp.Diff(input, joined, cmpEmptyAsNil()); diff != "" {
					t.Fatal(diff)
				}
				if len(items) > 0 {
					assert.LessOrEqual(t, maxLen-minLen, 1, "chunk sizes differ by at most one")
					assert.Positive(t, minLen, "no empty chunks")
				}
			})
		}
	}
}

func TestPartitionCopiesItems(t *testing.T) {
	input := []string{"a", "b", "c", "d"}
	items, err := Partition(input, 2)
	require.NoError(t, err)

	items[0].Items[0] = "changed"
	assert.Equal(t, "a", input[0], "chunks must not alias the input")
}

func cmpEmptyAsNil() cmp.Option {
	return cmp.FilterValues(func(x, y []int) bool {
		return len(x) == 0 && len(y) == 0
	}, cmp.Ignore())
}
