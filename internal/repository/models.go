package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        uuid.UUID
	Email     string
	Name      pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Cart struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type CartLine struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID string
	Variant   pgtype.Text
	Size      pgtype.Text
	Title     string
	Price     pgtype.Numeric
	Quantity  int32
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Product struct {
	ID          string
	Name        string
	Slug        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Images      []string
	Variants    []byte
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}
