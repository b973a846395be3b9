package repository

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	cartResponse "github.com/avelane/storefront/cart/pkg/response"
	catalogResponse "github.com/avelane/storefront/catalog/pkg/response"
)

func (l CartLine) Response() cartResponse.CartLine {
	var variant, size *string
	if l.Variant.Valid {
		v := l.Variant.String
		variant = &v
	}
	if l.Size.Valid {
		s := l.Size.String
		size = &s
	}
	return cartResponse.CartLine{
		ID:        l.ID,
		CartID:    l.CartID,
		ProductID: l.ProductID,
		Title:     l.Title,
		Variant:   variant,
		Size:      size,
		Price:     decimal.NewFromBigInt(l.Price.Int, l.Price.Exp),
		Quantity:  l.Quantity,
		CreatedAt: l.CreatedAt.Time,
		UpdatedAt: l.UpdatedAt.Time,
	}
}

func (p Product) Response() (catalogResponse.Product, error) {
	variants := []catalogResponse.Variant{}
	if len(p.Variants) > 0 {
		if err := json.Unmarshal(p.Variants, &variants); err != nil {
			return catalogResponse.Product{}, err
		}
	}
	var description *string
	if p.Description.Valid {
		d := p.Description.String
		description = &d
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return catalogResponse.Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: description,
		Price:       decimal.NewFromBigInt(p.Price.Int, p.Price.Exp),
		Images:      images,
		Variants:    variants,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}, nil
}
