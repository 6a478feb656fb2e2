package domain

// BackfillState is the terminal-state machine of one backfill run.
type BackfillState string

const (
	// BackfillRunning indicates the run is still processing batches.
	BackfillRunning BackfillState = "running"
	// BackfillCompleted indicates no rows without embeddings remain.
	BackfillCompleted BackfillState = "completed"
	// BackfillAborted indicates the run stopped on the first batch failure.
	BackfillAborted BackfillState = "aborted"
)

// BackfillProgress carries the counters of one backfill run.
// It exists only for the lifetime of the run and is never persisted.
type BackfillProgress struct {
	State          BackfillState
	BatchSize      int
	TotalUpdated   int
	LastBatchCount int
}
