package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCartByAccountId = `-- name: FindCartByAccountId :one
SELECT id, account_id, created_at, updated_at
FROM carts
WHERE account_id = $1
`

func (q *Queries) FindCartByAccountId(ctx context.Context, accountID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, findCartByAccountId, accountID)
	var i Cart
	err := row.Scan(&i.ID, &i.AccountID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const upsertCart = `-- name: UpsertCart :one
INSERT INTO carts (account_id)
VALUES ($1)
ON CONFLICT (account_id) DO UPDATE
SET account_id = excluded.account_id
RETURNING id, account_id, created_at, updated_at
`

func (q *Queries) UpsertCart(ctx context.Context, accountID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, upsertCart, accountID)
	var i Cart
	err := row.Scan(&i.ID, &i.AccountID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const upsertCartLine = `-- name: UpsertCartLine :one
INSERT INTO cart_lines (cart_id, product_id, variant, size, title, price, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (cart_id, product_id, variant, size) DO UPDATE
SET quantity   = cart_lines.quantity + excluded.quantity,
    updated_at = now()
RETURNING id, cart_id, product_id, variant, size, title, price, quantity, created_at, updated_at
`

type UpsertCartLineParams struct {
	CartID    uuid.UUID
	ProductID string
	Variant   pgtype.Text
	Size      pgtype.Text
	Title     string
	Price     pgtype.Numeric
	Quantity  int32
}

func (q *Queries) UpsertCartLine(ctx context.Context, arg UpsertCartLineParams) (CartLine, error) {
	row := q.db.QueryRow(ctx, upsertCartLine,
		arg.CartID,
		arg.ProductID,
		arg.Variant,
		arg.Size,
		arg.Title,
		arg.Price,
		arg.Quantity,
	)
	var i CartLine
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.Variant,
		&i.Size,
		&i.Title,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findCartLinesByCartId = `-- name: FindCartLinesByCartId :many
SELECT id, cart_id, product_id, variant, size, title, price, quantity, created_at, updated_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at, id
`

func (q *Queries) FindCartLinesByCartId(ctx context.Context, cartID uuid.UUID) ([]CartLine, error) {
	rows, err := q.db.Query(ctx, findCartLinesByCartId, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartLine{}
	for rows.Next() {
		var i CartLine
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ProductID,
			&i.Variant,
			&i.Size,
			&i.Title,
			&i.Price,
			&i.Quantity,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findCartLineInCart = `-- name: FindCartLineInCart :one
SELECT id, cart_id, product_id, variant, size, title, price, quantity, created_at, updated_at
FROM cart_lines
WHERE id = $1 AND cart_id = $2
`

type FindCartLineInCartParams struct {
	ID     uuid.UUID
	CartID uuid.UUID
}

func (q *Queries) FindCartLineInCart(
	ctx context.Context,
	arg FindCartLineInCartParams,
) (CartLine, error) {
	row := q.db.QueryRow(ctx, findCartLineInCart, arg.ID, arg.CartID)
	var i CartLine
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.Variant,
		&i.Size,
		&i.Title,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCartLineQuantity = `-- name: UpdateCartLineQuantity :one
UPDATE cart_lines
SET quantity   = $3,
    updated_at = now()
WHERE id = $1 AND cart_id = $2
RETURNING id, cart_id, product_id, variant, size, title, price, quantity, created_at, updated_at
`

type UpdateCartLineQuantityParams struct {
	ID       uuid.UUID
	CartID   uuid.UUID
	Quantity int32
}

func (q *Queries) UpdateCartLineQuantity(
	ctx context.Context,
	arg UpdateCartLineQuantityParams,
) (CartLine, error) {
	row := q.db.QueryRow(ctx, updateCartLineQuantity, arg.ID, arg.CartID, arg.Quantity)
	var i CartLine
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.Variant,
		&i.Size,
		&i.Title,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartLineInCart = `-- name: DeleteCartLineInCart :execrows
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`

type DeleteCartLineInCartParams struct {
	ID     uuid.UUID
	CartID uuid.UUID
}

func (q *Queries) DeleteCartLineInCart(
	ctx context.Context,
	arg DeleteCartLineInCartParams,
) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartLineInCart, arg.ID, arg.CartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
