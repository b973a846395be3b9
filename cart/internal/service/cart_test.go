package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelane/storefront/cart/internal/cache"
	"github.com/avelane/storefront/cart/pkg/request"
	inErrors "github.com/avelane/storefront/internal/errors"
	"github.com/avelane/storefront/internal/repository"
)

func TestAddItemSameSelectionIncrements(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{
		"prod-1": {"https://cdn.example.com/prod-1.webp"},
	})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	param := request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Variant:   strPtr("camel"),
		Size:      strPtr("one-size"),
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  2,
	}

	first, err := cartService.AddItem(c, identity, param)
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.Quantity)

	param.Quantity = 1
	second, err := cartService.AddItem(c, identity, param)
	require.NoError(t, err)
	assert.EqualValues(t, first.ID, second.ID)
	assert.EqualValues(t, 3, second.Quantity)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 3, lines[0].Quantity)
	assert.EqualValues(t, []string{"https://cdn.example.com/prod-1.webp"}, lines[0].Images)
	assert.True(t, lines[0].Price.Equal(decimal.RequireFromString("129.90")))
}

func TestAddItemNilVariantAndSizeIncrements(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	param := request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Silk Pocket Square",
		Price:     decimal.RequireFromString("65"),
		Quantity:  1,
	}

	first, err := cartService.AddItem(c, identity, param)
	require.NoError(t, err)
	assert.Nil(t, first.Variant)
	assert.Nil(t, first.Size)

	param.Quantity = 2
	second, err := cartService.AddItem(c, identity, param)
	require.NoError(t, err)
	assert.EqualValues(t, first.ID, second.ID)
	assert.EqualValues(t, 3, second.Quantity)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 3, lines[0].Quantity)
	assert.Nil(t, lines[0].Variant)
	assert.Nil(t, lines[0].Size)
}

func TestAddItemDifferentVariantCreatesNewLine(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{"prod-1": {}})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	gold := request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Signet Ring",
		Variant:   strPtr("gold"),
		Price:     decimal.RequireFromString("450"),
		Quantity:  1,
	}
	silver := gold
	silver.Variant = strPtr("silver")

	goldLine, err := cartService.AddItem(c, identity, gold)
	require.NoError(t, err)
	silverLine, err := cartService.AddItem(c, identity, silver)
	require.NoError(t, err)
	assert.NotEqualValues(t, goldLine.ID, silverLine.ID)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.EqualValues(t, goldLine.ID, lines[0].ID)
	assert.EqualValues(t, silverLine.ID, lines[1].ID)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	line, err := cartService.AddItem(c, "amelia@example.com", request.AddCartLine{
		ProductId: "prod-9",
		Title:     "Leather Belt",
		Price:     decimal.RequireFromString("85"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, line.Quantity)
}

func TestAddItemMissingIdentity(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := cartService.AddItem(c, "", request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, inErrors.ErrIdentityMissing)
}

func TestFetchCartUnknownIdentityReturnsEmpty(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	lines, err := cartService.FetchCart(c, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFetchCartMissingCatalogEntryHasEmptyImages(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	_, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-unknown",
		Title:     "Archived Jacket",
		Price:     decimal.RequireFromString("990"),
		Quantity:  1,
	})
	require.NoError(t, err)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.NotNil(t, lines[0].Images)
	assert.Empty(t, lines[0].Images)
}

func TestFetchCartCachesAndMutationsInvalidate(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	cacheKey := fmt.Sprintf(cache.KEY_CART_BY_EMAIL, identity)

	_, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = cartService.FetchCart(c, identity)
	require.NoError(t, err)
	exists, err := redisClient.Exists(c, cacheKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)

	_, err = cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-2",
		Title:     "Leather Belt",
		Price:     decimal.RequireFromString("85"),
		Quantity:  1,
	})
	require.NoError(t, err)
	exists, err = redisClient.Exists(c, cacheKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 0, exists)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestEditItemUpdateReplacesQuantity(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	line, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  2,
	})
	require.NoError(t, err)

	updated, err := cartService.EditItem(c, identity, line.ID, request.EditCartLine{
		Action:      request.ActionUpdate,
		NewQuantity: 7,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.EqualValues(t, 7, updated.Quantity)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 7, lines[0].Quantity)
}

func TestEditItemRemoveDeletesLine(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	scarf, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  1,
	})
	require.NoError(t, err)
	belt, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-2",
		Title:     "Leather Belt",
		Price:     decimal.RequireFromString("85"),
		Quantity:  1,
	})
	require.NoError(t, err)

	removed, err := cartService.EditItem(c, identity, scarf.ID, request.EditCartLine{
		Action: request.ActionRemove,
	})
	require.NoError(t, err)
	assert.Nil(t, removed)

	_, err = queries.FindCartLineInCart(c, repository.FindCartLineInCartParams{
		ID:     scarf.ID,
		CartID: scarf.CartID,
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, belt.ID, lines[0].ID)
}

func TestEditItemValidation(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	line, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  2,
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		param       request.EditCartLine
		expectedErr error
	}{
		{
			name:        "given update with zero quantity should return invalid quantity",
			param:       request.EditCartLine{Action: request.ActionUpdate, NewQuantity: 0},
			expectedErr: inErrors.ErrInvalidQuantity,
		},
		{
			name:        "given update with negative quantity should return invalid quantity",
			param:       request.EditCartLine{Action: request.ActionUpdate, NewQuantity: -3},
			expectedErr: inErrors.ErrInvalidQuantity,
		},
		{
			name:        "given unknown action should return invalid action",
			param:       request.EditCartLine{Action: "increment", NewQuantity: 1},
			expectedErr: inErrors.ErrInvalidAction,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := cartService.EditItem(c, identity, line.ID, test.param)
			assert.ErrorIs(t, err, test.expectedErr)
		})
	}

	lines, err := cartService.FetchCart(c, identity)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 2, lines[0].Quantity)
}

func TestEditItemUnknownAccountReturnsCartNotFound(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	identity := "amelia@example.com"
	line, err := cartService.AddItem(c, identity, request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = cartService.EditItem(c, "nobody@example.com", line.ID, request.EditCartLine{
		Action:      request.ActionUpdate,
		NewQuantity: 5,
	})
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestEditItemCrossAccountLineReturnsNotFound(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	owner := "amelia@example.com"
	intruder := "bram@example.com"

	ownerLine, err := cartService.AddItem(c, owner, request.AddCartLine{
		ProductId: "prod-1",
		Title:     "Cashmere Scarf",
		Price:     decimal.RequireFromString("129.90"),
		Quantity:  2,
	})
	require.NoError(t, err)
	_, err = cartService.AddItem(c, intruder, request.AddCartLine{
		ProductId: "prod-2",
		Title:     "Leather Belt",
		Price:     decimal.RequireFromString("85"),
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = cartService.EditItem(c, intruder, ownerLine.ID, request.EditCartLine{
		Action:      request.ActionUpdate,
		NewQuantity: 9,
	})
	assert.ErrorIs(t, err, inErrors.ErrCartLineNotFound)

	_, err = cartService.EditItem(c, intruder, ownerLine.ID, request.EditCartLine{
		Action: request.ActionRemove,
	})
	assert.ErrorIs(t, err, inErrors.ErrCartLineNotFound)

	lines, err := cartService.FetchCart(c, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 2, lines[0].Quantity)
}

func TestResolveAccountIsIdempotent(t *testing.T) {
	c := context.Background()
	stub := catalogStub(t, map[string][]string{})
	defer stub.Close()

	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c, stub.URL)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	first, err := cartService.ResolveAccount(c, "amelia@example.com")
	require.NoError(t, err)
	second, err := cartService.ResolveAccount(c, "amelia@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, first.ID, second.ID)

	firstCart, err := cartService.ResolveCart(c, first)
	require.NoError(t, err)
	secondCart, err := cartService.ResolveCart(c, second)
	require.NoError(t, err)
	assert.EqualValues(t, firstCart.ID, secondCart.ID)

	_, err = cartService.ResolveAccount(c, "")
	assert.ErrorIs(t, err, inErrors.ErrIdentityMissing)
}
