package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/avelane/storefront/catalog/internal/cache"
	"github.com/avelane/storefront/catalog/internal/otel"
	"github.com/avelane/storefront/catalog/pkg/request"
	"github.com/avelane/storefront/catalog/pkg/response"
	"github.com/avelane/storefront/internal/constants"
	inErrors "github.com/avelane/storefront/internal/errors"
	inOtel "github.com/avelane/storefront/internal/otel"
	"github.com/avelane/storefront/internal/repository"
)

type CatalogService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewCatalogService(queries *repository.Queries, cache *redis.Client) CatalogService {
	return CatalogService{queries: queries, cache: cache}
}

func (svc CatalogService) InsertProduct(
	c context.Context,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService InsertProduct").
		Str(constants.KEY_PRODUCT_ID, param.ID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product by slug").Logger()
	logger.Trace().Msg("finding product by slug")
	span.AddEvent("finding product by slug")
	_, err := svc.queries.FindProductBySlug(c, param.Slug)
	if err == nil {
		err = fmt.Errorf(
			"failed inserting product with slug=%s with error=%w",
			param.Slug,
			inErrors.ErrProductExist,
		)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Product{}, inErrors.ErrProductExist
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding product by slug with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	span.AddEvent("product does not exist yet")
	logger.Info().Msg("product does not exist yet")

	images := param.Images
	if images == nil {
		images = []string{}
	}
	variants := []byte("[]")
	if len(param.Variants) > 0 {
		variants, err = json.Marshal(param.Variants)
		if err != nil {
			err = fmt.Errorf("failed marshaling variants with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product to database").Logger()
	logger.Trace().Msg("inserting product to database")
	span.AddEvent("inserting product to database")
	product, err := svc.queries.InsertProduct(c, repository.InsertProductParams{
		ID:          param.ID,
		Name:        param.Name,
		Slug:        param.Slug,
		Description: textOrNull(param.Description),
		Price: pgtype.Numeric{
			Exp:              param.Price.Exponent(),
			InfinityModifier: pgtype.Finite,
			Int:              param.Price.Coefficient(),
			NaN:              false,
			Valid:            true,
		},
		Images:   images,
		Variants: variants,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			err = fmt.Errorf(
				"failed inserting product with error=%w",
				inErrors.ErrProductExist,
			)
			inOtel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return response.Product{}, inErrors.ErrProductExist
		}
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	span.AddEvent("inserted product to database")
	logger.Info().Msg("inserted product to database")

	productResponse, err := product.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT_BY_ID, product.ID)
	logger = logger.With().
		Str(constants.KEY_PROCESS, "inserting product to cache").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()
	logger.Trace().Msg("inserting product to cache")
	productJson, err := json.Marshal(productResponse)
	if err != nil {
		err = fmt.Errorf("failed marshaling product for cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	err = svc.cache.Set(c, cacheKey, productJson, time.Hour).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("inserted product to cache")

	return productResponse, nil
}

func (svc CatalogService) FindProductById(
	c context.Context,
	productId string,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT_BY_ID, productId)

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService FindProductById").
		Str(constants.KEY_PRODUCT_ID, productId).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	jsonString, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil {
		product := response.Product{}
		if err := json.Unmarshal([]byte(jsonString), &product); err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
		logger.Info().Msg("failed unmarshaling cached product, falling back to db")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in db").Logger()
	logger.Trace().Msg("finding product in db")
	product, err := svc.queries.FindProductById(c, productId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf(
				"failed finding productId=%s with error=%w",
				productId,
				inErrors.ErrProductNotFound,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding product in db with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in db")

	productResponse, err := product.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product to cache").Logger()
	logger.Trace().Msg("inserting product to cache")
	productJson, err := json.Marshal(productResponse)
	if err != nil {
		err = fmt.Errorf("failed marshaling product for cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	err = svc.cache.Set(c, cacheKey, productJson, time.Hour).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("inserted product to cache")

	return productResponse, nil
}

// FindProductsByIds is the batched lookup the cart's fetch enrichment calls.
// Unknown ids are absent from the result rather than an error.
func (svc CatalogService) FindProductsByIds(
	c context.Context,
	param request.BatchProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindProductsByIds")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService FindProductsByIds").
		Strs(constants.KEY_PRODUCT_IDS, param.ProductIds).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products in db").Logger()
	logger.Trace().Msg("finding products in db")
	products, err := svc.queries.FindProductsByIds(c, param.ProductIds)
	if err != nil {
		err = fmt.Errorf("failed finding products in db with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d products in db", len(products))

	responses := make([]response.Product, 0, len(products))
	for _, product := range products {
		productResponse, err := product.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping product with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		responses = append(responses, productResponse)
	}
	return responses, nil
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
