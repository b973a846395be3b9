package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avelane/storefront/internal"
	"github.com/avelane/storefront/internal/constants"
	inErrors "github.com/avelane/storefront/internal/errors"
	inHttp "github.com/avelane/storefront/internal/http"
)

func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).
			With().
			Str(constants.KEY_TAG, "middleware Auth").
			Logger()
		c := logger.WithContext(r.Context())

		authorization := r.Header.Get("Authorization")
		if authorization == "" || !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			logger.Error().
				Err(inErrors.ErrIdentityMissing).
				Msg(inErrors.ErrIdentityMissing.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusUnauthorized,
				"message":    inErrors.ErrIdentityMissing.Error(),
			})
			return
		}

		token := authorization[len("bearer "):]
		jwtToken, err := internal.VerifyToken(c, token)
		if err != nil {
			logger.Error().
				Err(inErrors.ErrTokenInvalid).
				Msg(inErrors.ErrTokenInvalid.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusUnauthorized,
				"message":    inErrors.ErrTokenInvalid.Error(),
			})
			return
		}

		c = internal.AttachJwtToken(c, jwtToken)
		next.ServeHTTP(w, r.WithContext(c))
	})
}
