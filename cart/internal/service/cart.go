package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/avelane/storefront/cart/internal/cache"
	"github.com/avelane/storefront/cart/internal/otel"
	"github.com/avelane/storefront/cart/pkg/request"
	"github.com/avelane/storefront/cart/pkg/response"
	catalogResponse "github.com/avelane/storefront/catalog/pkg/response"
	"github.com/avelane/storefront/internal/constants"
	inErrors "github.com/avelane/storefront/internal/errors"
	inHttp "github.com/avelane/storefront/internal/http"
	"github.com/avelane/storefront/internal/log"
	inOtel "github.com/avelane/storefront/internal/otel"
	"github.com/avelane/storefront/internal/repository"
)

type CartService struct {
	pool       *pgxpool.Pool
	queries    *repository.Queries
	cache      *redis.Client
	catalogUrl string
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	catalogUrl string,
) CartService {
	return CartService{pool: pool, queries: queries, cache: cache, catalogUrl: catalogUrl}
}

// ResolveAccount finds the account keyed by identity, creating it on first
// sight. The upsert makes repeated calls idempotent; the same identity never
// yields two accounts.
func (svc CartService) ResolveAccount(
	c context.Context,
	identity string,
) (repository.Account, error) {
	c, span := otel.Tracer.Start(c, "CartService ResolveAccount")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService ResolveAccount").
		Str(constants.KEY_ACCOUNT_EMAIL, identity).
		Logger()

	if identity == "" {
		err := fmt.Errorf("failed resolving account with error=%w", inErrors.ErrIdentityMissing)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Account{}, inErrors.ErrIdentityMissing
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting account").Logger()
	logger.Trace().Msg("upserting account")
	account, err := svc.queries.UpsertAccount(
		c,
		repository.UpsertAccountParams{Email: identity},
	)
	if err != nil {
		err = fmt.Errorf("failed upserting account with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Account{}, err
	}
	logger.Info().Msg("upserted account")

	return account, nil
}

// ResolveCart finds the account's cart, creating an empty one when absent.
// Idempotent; an account never owns more than one cart.
func (svc CartService) ResolveCart(
	c context.Context,
	account repository.Account,
) (repository.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ResolveCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService ResolveCart").
		Str(constants.KEY_ACCOUNT, account.ID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart").Logger()
	logger.Trace().Msg("upserting cart")
	cart, err := svc.queries.UpsertCart(c, account.ID)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.Cart{}, err
	}
	logger.Info().Msg("upserted cart")

	return cart, nil
}

// AddItem reconciles one add against the cart. A repeat add of the same
// (product, variant, size) increments the existing line's quantity; the
// store's composite unique key makes the increment atomic, so two concurrent
// adds can never produce duplicate lines.
func (svc CartService) AddItem(
	c context.Context,
	identity string,
	param request.AddCartLine,
) (response.CartLine, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_ACCOUNT_EMAIL, identity).
		Str(constants.KEY_PRODUCT_ID, param.ProductId).
		Logger()

	if identity == "" {
		err := fmt.Errorf("failed adding item with error=%w", inErrors.ErrIdentityMissing)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, inErrors.ErrIdentityMissing
	}

	quantity := param.Quantity
	if quantity < 1 {
		quantity = 1
	}
	logger = logger.With().Int32(constants.KEY_QUANTITY, quantity).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	logger.Trace().Msg("initialized transaction")
	defer func(lg zerolog.Logger) {
		l := lg.With().Str(constants.KEY_PROCESS, "rolling back transaction").Logger()
		if err := tx.Rollback(c); err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			l.Error().Err(err).Msg(err.Error())
		}
	}(logger)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "resolving account").Logger()
	logger.Trace().Msg("resolving account")
	span.AddEvent("resolving account")
	account, err := qtx.UpsertAccount(c, repository.UpsertAccountParams{Email: identity})
	if err != nil {
		err = fmt.Errorf("failed resolving account with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	span.AddEvent("resolved account")
	logger.Info().Msg("resolved account")

	logger = logger.With().Str(constants.KEY_PROCESS, "resolving cart").Logger()
	logger.Trace().Msg("resolving cart")
	span.AddEvent("resolving cart")
	cart, err := qtx.UpsertCart(c, account.ID)
	if err != nil {
		err = fmt.Errorf("failed resolving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	span.AddEvent("resolved cart")
	logger.Info().Msg("resolved cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart line").Logger()
	logger.Trace().Msg("upserting cart line")
	span.AddEvent("upserting cart line")
	line, err := qtx.UpsertCartLine(c, repository.UpsertCartLineParams{
		CartID:    cart.ID,
		ProductID: param.ProductId,
		Variant:   textOrNull(param.Variant),
		Size:      textOrNull(param.Size),
		Title:     param.Title,
		Price: pgtype.Numeric{
			Exp:              param.Price.Exponent(),
			InfinityModifier: pgtype.Finite,
			Int:              param.Price.Coefficient(),
			NaN:              false,
			Valid:            true,
		},
		Quantity: quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cart line with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	logger = logger.With().Str(constants.KEY_CART_LINE_ID, line.ID.String()).Logger()
	span.AddEvent("upserted cart line")
	logger.Info().Msg("upserted cart line")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartLine{}, err
	}
	logger.Info().Msg("committed transaction")

	svc.invalidateCart(c, identity)

	return line.Response(), nil
}

// EditItem replaces a line's quantity or removes the line. Unlike AddItem it
// never creates anything on the way: an absent account, cart, or line fails
// not-found before any write. Remove yields a nil line.
func (svc CartService) EditItem(
	c context.Context,
	identity string,
	cartLineId uuid.UUID,
	param request.EditCartLine,
) (*response.CartLine, error) {
	c, span := otel.Tracer.Start(c, "CartService EditItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService EditItem").
		Str(constants.KEY_ACCOUNT_EMAIL, identity).
		Str(constants.KEY_CART_LINE_ID, cartLineId.String()).
		Str(constants.KEY_ACTION, param.Action).
		Logger()

	if identity == "" {
		err := fmt.Errorf("failed editing item with error=%w", inErrors.ErrIdentityMissing)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inErrors.ErrIdentityMissing
	}

	if param.Action != request.ActionUpdate && param.Action != request.ActionRemove {
		err := fmt.Errorf(
			"failed editing item with action=%s with error=%w",
			param.Action,
			inErrors.ErrInvalidAction,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inErrors.ErrInvalidAction
	}
	if param.Action == request.ActionUpdate && param.NewQuantity < 1 {
		err := fmt.Errorf(
			"failed editing item with newQuantity=%d with error=%w",
			param.NewQuantity,
			inErrors.ErrInvalidQuantity,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inErrors.ErrInvalidQuantity
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding account").Logger()
	logger.Trace().Msg("finding account")
	account, err := svc.queries.FindAccountByEmail(c, identity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding account with error=%w", inErrors.ErrCartNotFound)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding account with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found account")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	cart, err := svc.queries.FindCartByAccountId(c, account.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding cart with error=%w", inErrors.ErrCartNotFound)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	switch param.Action {
	case request.ActionUpdate:
		logger = logger.With().Str(constants.KEY_PROCESS, "updating cart line quantity").Logger()
		logger.Trace().Msg("updating cart line quantity")
		span.AddEvent("updating cart line quantity")
		line, err := svc.queries.UpdateCartLineQuantity(
			c,
			repository.UpdateCartLineQuantityParams{
				ID:       cartLineId,
				CartID:   cart.ID,
				Quantity: param.NewQuantity,
			},
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = fmt.Errorf(
					"failed updating cart line with error=%w",
					inErrors.ErrCartLineNotFound,
				)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return nil, inErrors.ErrCartLineNotFound
			}
			err = fmt.Errorf("failed updating cart line with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		span.AddEvent("updated cart line quantity")
		logger.Info().Msg("updated cart line quantity")

		svc.invalidateCart(c, identity)

		updated := line.Response()
		return &updated, nil
	case request.ActionRemove:
		logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart line").Logger()
		logger.Trace().Msg("deleting cart line")
		span.AddEvent("deleting cart line")
		deleted, err := svc.queries.DeleteCartLineInCart(
			c,
			repository.DeleteCartLineInCartParams{ID: cartLineId, CartID: cart.ID},
		)
		if err != nil {
			err = fmt.Errorf("failed deleting cart line with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		if deleted == 0 {
			err = fmt.Errorf(
				"failed deleting cart line with error=%w",
				inErrors.ErrCartLineNotFound,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, inErrors.ErrCartLineNotFound
		}
		span.AddEvent("deleted cart line")
		logger.Info().Msg("deleted cart line")

		svc.invalidateCart(c, identity)

		return nil, nil
	}

	return nil, inErrors.ErrInvalidAction
}

// FetchCart returns the cart's lines in insertion order, each joined with the
// catalog's current display images. A shopper with no account or no cart gets
// an empty list, not an error.
func (svc CartService) FetchCart(
	c context.Context,
	identity string,
) ([]response.EnrichedCartLine, error) {
	c, span := otel.Tracer.Start(c, "CartService FetchCart")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_CART_BY_EMAIL, identity)

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService FetchCart").
		Str(constants.KEY_ACCOUNT_EMAIL, identity).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	if identity == "" {
		err := fmt.Errorf("failed fetching cart with error=%w", inErrors.ErrIdentityMissing)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inErrors.ErrIdentityMissing
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart in cache").Logger()
	logger.Trace().Msg("finding cart in cache")
	jsonString, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil {
		lines := []response.EnrichedCartLine{}
		if err := json.Unmarshal([]byte(jsonString), &lines); err == nil {
			logger.Info().Msg("found cart in cache")
			return lines, nil
		}
		logger.Info().Msg("failed unmarshaling cached cart, falling back to db")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding account").Logger()
	logger.Trace().Msg("finding account")
	account, err := svc.queries.FindAccountByEmail(c, identity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("account not found, returning empty cart")
			return []response.EnrichedCartLine{}, nil
		}
		err = fmt.Errorf("failed finding account with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found account")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	cart, err := svc.queries.FindCartByAccountId(c, account.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("cart not found, returning empty cart")
			return []response.EnrichedCartLine{}, nil
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart lines").Logger()
	logger.Trace().Msg("finding cart lines")
	lines, err := svc.queries.FindCartLinesByCartId(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Int(constants.KEY_CART_LINES, len(lines)).Logger()
	logger.Info().Msg("found cart lines")

	logger = logger.With().Str(constants.KEY_PROCESS, "fetching catalog images").Logger()
	logger.Trace().Msg("fetching catalog images")
	span.AddEvent("fetching catalog images")
	imagesByProduct, err := svc.fetchImages(c, distinctProductIds(lines))
	if err != nil {
		err = fmt.Errorf("failed fetching catalog images with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	span.AddEvent("fetched catalog images")
	logger.Info().Msg("fetched catalog images")

	enriched := make([]response.EnrichedCartLine, 0, len(lines))
	for _, line := range lines {
		images := imagesByProduct[line.ProductID]
		if images == nil {
			images = []string{}
		}
		enriched = append(enriched, response.EnrichedCartLine{
			CartLine: line.Response(),
			Images:   images,
		})
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart to cache").Logger()
	logger.Trace().Msg("inserting cart to cache")
	cartJson, err := json.Marshal(enriched)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart for cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	err = svc.cache.Set(c, cacheKey, cartJson, time.Hour).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting cart to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("inserted cart to cache")

	return enriched, nil
}

// fetchImages asks the catalog for every distinct product in one batched call.
// Products the catalog does not know are simply absent from the result.
func (svc CartService) fetchImages(
	c context.Context,
	productIds []string,
) (map[string][]string, error) {
	c, span := otel.Tracer.Start(c, "CartService fetchImages")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService fetchImages").
		Strs(constants.KEY_PRODUCT_IDS, productIds).
		Logger()

	if len(productIds) == 0 {
		return map[string][]string{}, nil
	}

	body, err := json.Marshal(map[string][]string{"product_ids": productIds})
	if err != nil {
		err = fmt.Errorf("failed marshaling batch request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		svc.catalogUrl+"/products/batch",
		bytes.NewBuffer(body),
	)
	if err != nil {
		err = fmt.Errorf("failed creating batch request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	req.Header.Add(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	req.Header.Add(inHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed batch request to catalog-service with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("catalog-service returned status code=%d", resp.StatusCode)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	respBody := struct {
		Data struct {
			Products []catalogResponse.Product `json:"products"`
		} `json:"data"`
	}{}
	err = json.NewDecoder(resp.Body).Decode(&respBody)
	if err != nil {
		err = fmt.Errorf("failed decoding batch response with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	imagesByProduct := map[string][]string{}
	for _, product := range respBody.Data.Products {
		imagesByProduct[product.ID] = product.Images
	}
	return imagesByProduct, nil
}

func (svc CartService) invalidateCart(c context.Context, identity string) {
	cacheKey := fmt.Sprintf(cache.KEY_CART_BY_EMAIL, identity)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService invalidateCart").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()
	if err := svc.cache.Del(c, cacheKey).Err(); err != nil {
		logger.Info().Err(err).Msg("failed deleting cart from cache")
		return
	}
	logger.Trace().Msg("deleted cart from cache")
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func distinctProductIds(lines []repository.CartLine) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}
