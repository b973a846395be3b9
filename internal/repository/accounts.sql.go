package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const findAccountByEmail = `-- name: FindAccountByEmail :one
SELECT id, email, name, created_at, updated_at
FROM accounts
WHERE email = $1
`

func (q *Queries) FindAccountByEmail(ctx context.Context, email string) (Account, error) {
	row := q.db.QueryRow(ctx, findAccountByEmail, email)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertAccount = `-- name: UpsertAccount :one
INSERT INTO accounts (email, name)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE
SET email = excluded.email
RETURNING id, email, name, created_at, updated_at
`

type UpsertAccountParams struct {
	Email string
	Name  pgtype.Text
}

func (q *Queries) UpsertAccount(ctx context.Context, arg UpsertAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, upsertAccount, arg.Email, arg.Name)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
