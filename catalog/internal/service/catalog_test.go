package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelane/storefront/catalog/internal/cache"
	"github.com/avelane/storefront/catalog/pkg/request"
	inErrors "github.com/avelane/storefront/internal/errors"
)

func TestInsertProduct(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, catalogService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	param := request.Product{
		ID:          "prod-1",
		Name:        "Cashmere Scarf",
		Slug:        "cashmere-scarf",
		Description: "Hand-loomed in Mongolia",
		Price:       decimal.RequireFromString("129.90"),
		Images:      []string{"https://cdn.example.com/prod-1.webp"},
		Variants: []request.Variant{
			{Color: "camel", Size: "one-size"},
		},
	}

	product, err := catalogService.InsertProduct(c, param)
	require.NoError(t, err)
	assert.EqualValues(t, "prod-1", product.ID)
	assert.EqualValues(t, "cashmere-scarf", product.Slug)
	require.NotNil(t, product.Description)
	assert.EqualValues(t, "Hand-loomed in Mongolia", *product.Description)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("129.90")))
	require.Len(t, product.Variants, 1)
	assert.EqualValues(t, "camel", product.Variants[0].Color)

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT_BY_ID, product.ID)
	exists, err := redisClient.Exists(c, cacheKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)

	param.ID = "prod-2"
	_, err = catalogService.InsertProduct(c, param)
	assert.ErrorIs(t, err, inErrors.ErrProductExist)

	_, err = catalogService.InsertProduct(c, request.Product{
		ID:    "prod-1",
		Name:  "Cashmere Scarf",
		Slug:  "cashmere-scarf-v2",
		Price: decimal.RequireFromString("129.90"),
	})
	assert.ErrorIs(t, err, inErrors.ErrProductExist)
}

func TestFindProductById(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, catalogService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	inserted, err := catalogService.InsertProduct(c, request.Product{
		ID:     "prod-1",
		Name:   "Cashmere Scarf",
		Slug:   "cashmere-scarf",
		Price:  decimal.RequireFromString("129.90"),
		Images: []string{"https://cdn.example.com/prod-1.webp"},
	})
	require.NoError(t, err)

	found, err := catalogService.FindProductById(c, inserted.ID)
	require.NoError(t, err)
	assert.EqualValues(t, inserted.ID, found.ID)
	assert.EqualValues(t, inserted.Images, found.Images)
	assert.Nil(t, found.Description)

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT_BY_ID, inserted.ID)
	require.NoError(t, redisClient.Del(c, cacheKey).Err())
	found, err = catalogService.FindProductById(c, inserted.ID)
	require.NoError(t, err)
	assert.EqualValues(t, inserted.ID, found.ID)

	_, err = catalogService.FindProductById(c, "prod-unknown")
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestFindProductsByIds(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, catalogService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := catalogService.InsertProduct(c, request.Product{
		ID:     "prod-1",
		Name:   "Cashmere Scarf",
		Slug:   "cashmere-scarf",
		Price:  decimal.RequireFromString("129.90"),
		Images: []string{"https://cdn.example.com/prod-1.webp"},
	})
	require.NoError(t, err)
	_, err = catalogService.InsertProduct(c, request.Product{
		ID:    "prod-2",
		Name:  "Leather Belt",
		Slug:  "leather-belt",
		Price: decimal.RequireFromString("85"),
	})
	require.NoError(t, err)

	products, err := catalogService.FindProductsByIds(c, request.BatchProducts{
		ProductIds: []string{"prod-1", "prod-2", "prod-unknown"},
	})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.EqualValues(t, "prod-1", products[0].ID)
	assert.EqualValues(t, "prod-2", products[1].ID)
	assert.NotNil(t, products[1].Images)
	assert.Empty(t, products[1].Images)
}
