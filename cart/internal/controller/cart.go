package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/avelane/storefront/cart/internal/otel"
	"github.com/avelane/storefront/cart/internal/service"
	"github.com/avelane/storefront/cart/pkg/request"
	"github.com/avelane/storefront/internal"
	"github.com/avelane/storefront/internal/constants"
	inErrors "github.com/avelane/storefront/internal/errors"
	inHttp "github.com/avelane/storefront/internal/http"
	inOtel "github.com/avelane/storefront/internal/otel"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	router := mux.PathPrefix("/carts").Subrouter()
	router.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{cartLineId}", controller.EditItem).Methods(http.MethodPatch)
	router.HandleFunc("", controller.FetchCart).Methods(http.MethodGet)
}

func statusCodeOf(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrIdentityMissing), errors.Is(err, inErrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrCartNotFound), errors.Is(err, inErrors.ErrCartLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrInvalidQuantity), errors.Is(err, inErrors.ErrInvalidAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.AddCartLine{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting identity from jwtToken").Logger()
	logger.Trace().Msg("getting identity from jwtToken")
	identity, err := internal.EmailFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting identity from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_ACCOUNT_EMAIL, identity).Logger()
	logger.Trace().Msg("got identity from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item").Logger()
	logger.Info().Msg("adding item")
	c = logger.WithContext(c)
	line, err := t.service.AddItem(c, identity, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully added item to cart",
		"data": map[string]interface{}{
			"cart_line": line,
		},
	})
}

func (t CartController) EditItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController EditItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController EditItem").
		Str(constants.KEY_PROCESS, "validating cartLineId").
		Logger()

	logger.Trace().Msg("validating cartLineId")
	pathValues := mux.Vars(r)
	cartLineId, err := uuid.Parse(pathValues["cartLineId"])
	if err != nil {
		err = fmt.Errorf(
			"failed validating cartLineId=%s with error=%w",
			pathValues["cartLineId"],
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_CART_LINE_ID, cartLineId.String()).Logger()
	logger.Trace().Msg("validated cartLineId")

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.EditCartLine{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting identity from jwtToken").Logger()
	logger.Trace().Msg("getting identity from jwtToken")
	identity, err := internal.EmailFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting identity from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_ACCOUNT_EMAIL, identity).Logger()
	logger.Trace().Msg("got identity from jwtToken")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "editing item").
		Str(constants.KEY_ACTION, reqBody.Action).
		Logger()
	logger.Info().Msg("editing item")
	c = logger.WithContext(c)
	line, err := t.service.EditItem(c, identity, cartLineId, reqBody)
	if err != nil {
		err = fmt.Errorf(
			"failed editing cartLineId=%s with error=%w",
			cartLineId.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("edited item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully edited cartLineId=%s", cartLineId.String()),
		"data": map[string]interface{}{
			"cart_line": line,
		},
	})
}

func (t CartController) FetchCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FetchCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController FetchCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting identity from jwtToken").Logger()
	logger.Trace().Msg("getting identity from jwtToken")
	identity, err := internal.EmailFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting identity from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_ACCOUNT_EMAIL, identity).Logger()
	logger.Trace().Msg("got identity from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "fetching cart").Logger()
	logger.Info().Msg("fetching cart")
	c = logger.WithContext(c)
	lines, err := t.service.FetchCart(c, identity)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCodeOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int(constants.KEY_CART_LINES, len(lines)).Logger()
	logger.Info().Msg("fetched cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully fetched cart",
		"data": map[string]interface{}{
			"cart_lines": lines,
		},
	})
}
