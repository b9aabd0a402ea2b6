package mapreduce

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumItems(_ context.Context, items []int) (int, error) {
	total := 0
	for _, v := range items {
		total += v
	}
	return total, nil
}

// TestWorkerSendsOneResult verifies that a worker delivers exactly one result and terminates
func TestWorkerSendsOneResult(t *testing.T) {
	results := make(chan PartialResult[int], 2)
	h := Spawn(context.Background(), WorkItem[int]{Index: 3, Items: []int{1, 2, 3}}, sumItems, results)

	res := withTimeout(t, results)
	assert.Equal(t, 3, res.Chunk)
	assert.Equal(t, 6, res.Value)
	assert.NoError(t, res.Err)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for worker to terminate")
	}
	assert.NoError(t, h.Wait())
	assert.False(t, h.IsRunning())
	assert.Equal(t, 3, h.Chunk())
	assert.Len(t, results, 0, "no second result")
}

// TestWorkerTransformError verifies that a returned error is reported as a result, not a fault
func TestWorkerTransformError(t *testing.T) {
	bad := errors.New("bad chunk")
	results := make(chan PartialResult[int], 1)
	h := Spawn(context.Background(), WorkItem[int]{Index: 1}, func(context.Context, []int) (int, error) {
		return 0, bad
	}, results)

	res := withTimeout(t, results)
	require.Error(t, res.Err)
	assert.True(t, res.Failed())

	var we *WorkerError
	require.ErrorAs(t, res.Err, &we)
	assert.Equal(t, 1, we.Chunk)
	assert.ErrorIs(t, res.Err, bad)
	assert.NoError(t, h.Wait(), "a returned error is not an abnormal termination")
}

// TestWorkerPanic verifies that a panicking transform is observable through the handle
func TestWorkerPanic(t *testing.T) {
	results := make(chan PartialResult[int], 1)
	h := Spawn(context.Background(), WorkItem[int]{Index: 2}, func(context.Context, []int) (int, error) {
		panic("kaboom")
	}, results)

	err := h.Wait()
	require.Error(t, err)

	var wf *WorkerFault
	require.ErrorAs(t, err, &wf)
	assert.Equal(t, 2, wf.Chunk)
	assert.Equal(t, "kaboom", wf.Value)
	assert.NotEmpty(t, wf.Stack)
	assert.Contains(t, wf.Error(), "panicked")

	// the slot is still accounted for on the result channel
	res := withTimeout(t, results)
	assert.Equal(t, 2, res.Chunk)
	assert.ErrorAs(t, res.Err, &wf)
}

// TestWorkerGoexit verifies that runtime.Goexit is treated as a fault
func TestWorkerGoexit(t *testing.T) {
	results := make(chan PartialResult[int], 1)
	h := Spawn(context.Background(), WorkItem[int]{Index: 0}, func(context.Context, []int) (int, error) {
		runtime.Goexit()
		return 1, nil
	}, results)

	var wf *WorkerFault
	require.ErrorAs(t, h.Wait(), &wf)
	assert.Nil(t, wf.Value)
	assert.Contains(t, wf.Error(), "without a result")
	assert.Equal(t, 0, withTimeout(t, results).Chunk)
}

// TestWorkerDuration verifies Duration is zero while running and set afterwards
func TestWorkerDuration(t *testing.T) {
	release := make(chan struct{})
	results := make(chan PartialResult[int], 1)
	h := Spawn(context.Background(), WorkItem[int]{Index: 0}, func(context.Context, []int) (int, error) {
		<-release
		time.Sleep(5 * time.Millisecond)
		return 0, nil
	}, results)

	assert.True(t, h.IsRunning())
	assert.Zero(t, h.Duration())
	close(release)
	require.NoError(t, h.Wait())
	assert.GreaterOrEqual(t, h.Duration(), 5*time.Millisecond)
}
