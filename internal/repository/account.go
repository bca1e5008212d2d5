package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	AccountId    int64
	Username     string
	PasswordHash []byte
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

func (q *Queries) CreateAccount(
	ctx context.Context, username string, passwordHash []byte,
) (*Account, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO account (username, password_hash)
		VALUES ($1, $2)
		RETURNING *;`,
		username,
		passwordHash,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Account])
}

func (q *Queries) GetAccount(
	ctx context.Context, username string,
) (*Account, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM account WHERE username = $1",
		username,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Account])
}
