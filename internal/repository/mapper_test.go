package repository

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLineResponse(t *testing.T) {
	line := CartLine{
		ID:        uuid.New(),
		CartID:    uuid.New(),
		ProductID: "prod-1",
		Variant:   pgtype.Text{String: "camel", Valid: true},
		Size:      pgtype.Text{},
		Title:     "Cashmere Scarf",
		Price:     pgtype.Numeric{Int: big.NewInt(12990), Exp: -2, Valid: true},
		Quantity:  3,
	}

	actual := line.Response()

	assert.EqualValues(t, line.ID, actual.ID)
	assert.EqualValues(t, line.CartID, actual.CartID)
	require.NotNil(t, actual.Variant)
	assert.EqualValues(t, "camel", *actual.Variant)
	assert.Nil(t, actual.Size)
	assert.True(t, actual.Price.Equal(decimal.RequireFromString("129.90")))
	assert.EqualValues(t, 3, actual.Quantity)
}

func TestProductResponse(t *testing.T) {
	product := Product{
		ID:       "prod-1",
		Name:     "Cashmere Scarf",
		Slug:     "cashmere-scarf",
		Price:    pgtype.Numeric{Int: big.NewInt(12990), Exp: -2, Valid: true},
		Variants: []byte(`[{"color":"camel","size":"one-size"}]`),
	}

	actual, err := product.Response()

	require.NoError(t, err)
	assert.Nil(t, actual.Description)
	assert.NotNil(t, actual.Images)
	assert.Empty(t, actual.Images)
	require.Len(t, actual.Variants, 1)
	assert.EqualValues(t, "camel", actual.Variants[0].Color)
	assert.True(t, actual.Price.Equal(decimal.RequireFromString("129.90")))
}

func TestProductResponseInvalidVariants(t *testing.T) {
	product := Product{
		ID:       "prod-1",
		Variants: []byte(`{not json`),
	}

	_, err := product.Response()

	assert.Error(t, err)
}
