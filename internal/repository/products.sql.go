package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (id, name, slug, description, price, images, variants)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, slug, description, price, images, variants, created_at, updated_at
`

type InsertProductParams struct {
	ID          string
	Name        string
	Slug        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Images      []string
	Variants    []byte
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, insertProduct,
		arg.ID,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Price,
		arg.Images,
		arg.Variants,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.Price,
		&i.Images,
		&i.Variants,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findProductById = `-- name: FindProductById :one
SELECT id, name, slug, description, price, images, variants, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) FindProductById(ctx context.Context, id string) (Product, error) {
	row := q.db.QueryRow(ctx, findProductById, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.Price,
		&i.Images,
		&i.Variants,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findProductBySlug = `-- name: FindProductBySlug :one
SELECT id, name, slug, description, price, images, variants, created_at, updated_at
FROM products
WHERE slug = $1
`

func (q *Queries) FindProductBySlug(ctx context.Context, slug string) (Product, error) {
	row := q.db.QueryRow(ctx, findProductBySlug, slug)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.Price,
		&i.Images,
		&i.Variants,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findProductsByIds = `-- name: FindProductsByIds :many
SELECT id, name, slug, description, price, images, variants, created_at, updated_at
FROM products
WHERE id = ANY($1::text[])
ORDER BY id
`

func (q *Queries) FindProductsByIds(ctx context.Context, ids []string) ([]Product, error) {
	rows, err := q.db.Query(ctx, findProductsByIds, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Slug,
			&i.Description,
			&i.Price,
			&i.Images,
			&i.Variants,
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
