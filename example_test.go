package mapreduce_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/panyam/mapreduce"
)

func ExampleRun() {
	sumChunk := func(_ context.Context, items []int) (int, error) {
		total := 0
		for _, v := range items {
			total += v
		}
		return total, nil
	}
	add := func(acc, v int) int { return acc + v }

	total, err := mapreduce.Run(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8}, 4, sumChunk, add, 0)
	fmt.Println(total, err)

	// Output:
	// 36 <nil>
}

func ExampleRun_parseError() {
	parse := func(_ context.Context, items []string) (int, error) {
		return strconv.Atoi(items[0])
	}
	add := func(acc, v int) int { return acc + v }

	_, err := mapreduce.Run(context.Background(), []string{"1", "x", "3"}, 3, parse, add, 0)

	var we *mapreduce.WorkerError
	if errors.As(err, &we) {
		fmt.Println("failed chunk:", we.Chunk)
	}
	fmt.Println(errors.Is(err, mapreduce.ErrWorkerFailed))

	// Output:
	// failed chunk: 1
	// true
}

// Every producer sends its own id; the collector gathers them all. Arrival
// order varies, so the ids are sorted before printing.
func ExampleRun_channels() {
	ids := []int{0, 1, 2, 3, 4}
	send := func(_ context.Context, items []int) (int, error) {
		return items[0], nil
	}
	gather := func(acc []int, id int) []int { return append(acc, id) }

	got, err := mapreduce.Run(context.Background(), ids, len(ids), send, gather, nil)
	if err != nil {
		panic(err)
	}
	slices.Sort(got)
	fmt.Println(got)

	// Output:
	// [0 1 2 3 4]
}
