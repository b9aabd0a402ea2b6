package mapreduce

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report describes a finished executor run.
type Report struct {
	RunID    string
	State    State
	Chunks   int
	Duration time.Duration
	// Workers holds the run time of every worker that had terminated when the
	// run returned, indexed by chunk. Workers still running are absent.
	Workers map[int]time.Duration
	Stats   WorkerStats
}

// WorkerStats summarises worker run times in seconds.
type WorkerStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Max    float64
}

func newReport(runID string, state State, chunks int, elapsed time.Duration, handles []*WorkerHandle) *Report {
	r := &Report{
		RunID:    runID,
		State:    state,
		Chunks:   chunks,
		Duration: elapsed,
		Workers:  make(map[int]time.Duration, len(handles)),
	}
	secs := make([]float64, 0, len(handles))
	for _, h := range handles {
		select {
		case <-h.Done():
		default:
			continue
		}
		d := h.Duration()
		r.Workers[h.Chunk()] = d
		secs = append(secs, d.Seconds())
	}
	r.Stats = workerStats(secs)
	return r
}

func workerStats(secs []float64) WorkerStats {
	ws := WorkerStats{Count: len(secs)}
	if len(secs) == 0 {
		return ws
	}
	ws.Mean = stat.Mean(secs, nil)
	ws.Max = floats.Max(secs)
	// sample stddev is undefined for one observation
	if len(secs) > 1 {
		ws.StdDev = stat.StdDev(secs, nil)
	}
	return ws
}

// String renders a one-line summary of the report.
func (r *Report) String() string {
	return fmt.Sprintf("run %s %s: %d chunks in %s (workers mean=%.6fs stddev=%.6fs max=%.6fs)",
		r.RunID, r.State, r.Chunks, r.Duration, r.Stats.Mean, r.Stats.StdDev, r.Stats.Max)
}
