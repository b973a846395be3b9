package request

import (
	"github.com/shopspring/decimal"
)

type AddCartLine struct {
	ProductId string          `validate:"required"       json:"product_id"`
	Title     string          `validate:"required"       json:"title"`
	Variant   *string         `                          json:"variant"`
	Size      *string         `                          json:"size"`
	Price     decimal.Decimal `validate:"required"       json:"price"`
	Quantity  int32           `validate:"omitempty,gte=1" json:"quantity"`
}

type EditCartLine struct {
	Action      string `validate:"required" json:"action"`
	NewQuantity int32  `                    json:"new_quantity"`
}

const (
	ActionUpdate = "update"
	ActionRemove = "remove"
)
