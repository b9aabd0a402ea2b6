// Package mapreduce provides a bounded parallel map-reduce executor.
//
// The pattern is the classic fan-out/fan-in: the input is split into a fixed
// number of contiguous chunks, each chunk is handed to its own goroutine, and
// every goroutine sends exactly one result over a shared channel to a single
// collector that folds the results into the final value.
//
// The main components include:
//
//   - Partition: Splits an input slice into N contiguous, non-overlapping WorkItems
//   - Spawn / WorkerHandle: Runs one transform per WorkItem and reports abnormal termination
//   - Pool: Owns the workers and the result channel of a single run, and joins them
//   - Collector: Waits for N PartialResults and reduces them, fail-fast or collect-all
//   - Executor: Drives Partition -> Pool -> Collector and returns the aggregate or an error
//
// Results reach the collector in completion order, so the reduce function
// must be commutative and associative for the aggregate to be deterministic.
// This is a contract on the caller and is not checked.
//
// Panics inside a transform never escape Run: they are converted to
// *WorkerFault values. Every worker is joined before Run returns, except when
// the run is abandoned because of a timeout or a cancelled context.
package mapreduce
