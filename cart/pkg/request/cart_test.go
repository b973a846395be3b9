package request

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddCartLineRequest(t *testing.T) {
	body := `{"product_id":"prod-1","title":"Cashmere Scarf","variant":"camel","price":"129.90","quantity":2}`

	actual := AddCartLine{}
	err := json.Unmarshal([]byte(body), &actual)

	assert.NoError(t, err)
	assert.EqualValues(t, "prod-1", actual.ProductId)
	assert.EqualValues(t, "Cashmere Scarf", actual.Title)
	assert.NotNil(t, actual.Variant)
	assert.EqualValues(t, "camel", *actual.Variant)
	assert.Nil(t, actual.Size)
	assert.True(t, actual.Price.Equal(decimal.RequireFromString("129.90")))
	assert.EqualValues(t, 2, actual.Quantity)
}

func TestEditCartLineRequest(t *testing.T) {
	body := `{"action":"update","new_quantity":7}`

	actual := EditCartLine{}
	err := json.Unmarshal([]byte(body), &actual)

	assert.NoError(t, err)
	assert.EqualValues(t, ActionUpdate, actual.Action)
	assert.EqualValues(t, 7, actual.NewQuantity)
}
