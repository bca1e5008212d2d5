package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// InferenceRun is one recorded engine invocation: board shape, how
// much of it was revealed, and what the engine concluded.
type InferenceRun struct {
	RunId      int64
	AccountId  *int64
	Width      int
	Height     int
	Revealed   int
	SafeCount  int
	MineCount  int
	DurationUs int64
	CreatedAt  pgtype.Timestamptz
}

type CreateInferenceRunParams struct {
	AccountId  *int64
	Width      int
	Height     int
	Revealed   int
	SafeCount  int
	MineCount  int
	DurationUs int64
}

func (q *Queries) CreateInferenceRun(
	ctx context.Context, params CreateInferenceRunParams,
) (*InferenceRun, error) {
	args := pgx.NamedArgs{
		"account_id":  nil,
		"width":       params.Width,
		"height":      params.Height,
		"revealed":    params.Revealed,
		"safe_count":  params.SafeCount,
		"mine_count":  params.MineCount,
		"duration_us": params.DurationUs,
	}
	if params.AccountId != nil {
		args["account_id"] = *params.AccountId
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO inference_run (
			account_id, width, height, revealed,
			safe_count, mine_count, duration_us
		)
		VALUES (
			@account_id, @width, @height, @revealed,
			@safe_count, @mine_count, @duration_us
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[InferenceRun],
	)
}

func (q *Queries) ListInferenceRuns(
	ctx context.Context, accountId int64, limit int,
) ([]*InferenceRun, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT * FROM inference_run
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		accountId,
		limit,
	)
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[InferenceRun])
}
