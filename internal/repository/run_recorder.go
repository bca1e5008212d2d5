package repository

import (
	"context"

	"github.com/yuuuno/sweeper/internal/loop"
)

// RunRecorder persists loop cycle reports as inference_run rows.
type RunRecorder struct {
	q *Queries
}

func NewRunRecorder(q *Queries) *RunRecorder {
	return &RunRecorder{q: q}
}

func (r *RunRecorder) Record(ctx context.Context, report loop.Report) error {
	_, err := r.q.CreateInferenceRun(ctx, newRunParams(report))
	return err
}

// Cycles recorded by the loop are anonymous; only the HTTP solve path
// knows an account.
func newRunParams(report loop.Report) CreateInferenceRunParams {
	return CreateInferenceRunParams{
		Width:      report.Width,
		Height:     report.Height,
		Revealed:   report.Revealed,
		SafeCount:  report.SafeCount,
		MineCount:  report.MineCount,
		DurationUs: report.Took.Microseconds(),
	}
}
