package request

import (
	"github.com/shopspring/decimal"
)

type Variant struct {
	Color string `validate:"required" json:"color"`
	Size  string `validate:"required" json:"size"`
}

type Product struct {
	ID          string          `validate:"required"      json:"id"`
	Name        string          `validate:"required"      json:"name"`
	Slug        string          `validate:"required"      json:"slug"`
	Description string          `                         json:"description"`
	Price       decimal.Decimal `validate:"required"      json:"price"`
	Images      []string        `validate:"dive,url"      json:"images"`
	Variants    []Variant       `validate:"dive"          json:"variants"`
}

type BatchProducts struct {
	ProductIds []string `validate:"required,min=1,dive,required" json:"product_ids"`
}
