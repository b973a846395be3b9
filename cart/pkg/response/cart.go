package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID        uuid.UUID       `json:"id"`
	CartID    uuid.UUID       `json:"cart_id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Variant   *string         `json:"variant"`
	Size      *string         `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EnrichedCartLine is a CartLine joined with the catalog's display images.
// Images is empty, never null, when the catalog has no entry for the product.
type EnrichedCartLine struct {
	CartLine
	Images []string `json:"images"`
}
