package internal

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/avelane/storefront/internal/config"
	"github.com/avelane/storefront/internal/constants"
	"github.com/avelane/storefront/internal/errors"
	"github.com/avelane/storefront/internal/otel"
)

// IdentityClaims carries the verified identity the external identity provider
// attached to the request. The email claim is the stable handle accounts are
// keyed by; it is trusted here without re-verification.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func VerifyToken(c context.Context, token string) (*jwt.Token, error) {
	c, span := otel.Tracer.Start(c, "VerifyToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "VerifyToken").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing config").Logger()
	logger.Trace().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.Get(c, constants.APP_CART_SERVICE)
	logger.Trace().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	jwtToken, err := jwt.ParseWithClaims(token,
		&IdentityClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.SecretKey), nil
		},
		jwt.WithAudience(constants.AUDIENCE_STOREFRONT),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("parsed claims")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating token").Logger()
	logger.Trace().Msg("validating token")
	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", errors.ErrTokenInvalid)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, errors.ErrTokenInvalid
	}
	logger.Info().Msg("validated token")

	return jwtToken, nil
}

type jwtToken struct{}

func AttachJwtToken(c context.Context, jwt *jwt.Token) context.Context {
	return context.WithValue(c, jwtToken{}, jwt)
}

func JwtTokenFromContext(c context.Context) *jwt.Token {
	token, ok := c.Value(jwtToken{}).(*jwt.Token)
	if !ok {
		return nil
	}
	return token
}

func EmailFromJwtToken(c context.Context) (string, error) {
	c, span := otel.Tracer.Start(c, "EmailFromJwtToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "getting email from jwtToken").
		Logger()

	logger.Trace().Msg("getting jwtToken from context")
	span.AddEvent("getting jwtToken from context")
	token := JwtTokenFromContext(c)
	if token == nil {
		err := fmt.Errorf(
			"failed getting jwtToken from context with error=%w",
			errors.ErrIdentityMissing,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", errors.ErrIdentityMissing
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || claims.Email == "" {
		err := fmt.Errorf(
			"failed getting email claim with error=%w",
			errors.ErrIdentityMissing,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", errors.ErrIdentityMissing
	}
	logger.Trace().Msg("got email from jwtToken")

	return claims.Email, nil
}
