package internal

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelane/storefront/internal/errors"
)

func TestEmailFromJwtToken(t *testing.T) {
	c := context.Background()

	_, err := EmailFromJwtToken(c)
	assert.ErrorIs(t, err, errors.ErrIdentityMissing)

	token := &jwt.Token{Claims: &IdentityClaims{Email: "amelia@example.com"}}
	email, err := EmailFromJwtToken(AttachJwtToken(c, token))
	require.NoError(t, err)
	assert.EqualValues(t, "amelia@example.com", email)

	empty := &jwt.Token{Claims: &IdentityClaims{}}
	_, err = EmailFromJwtToken(AttachJwtToken(c, empty))
	assert.ErrorIs(t, err, errors.ErrIdentityMissing)
}

func TestJwtTokenFromContext(t *testing.T) {
	c := context.Background()
	assert.Nil(t, JwtTokenFromContext(c))

	token := &jwt.Token{Claims: &IdentityClaims{Email: "amelia@example.com"}}
	assert.Equal(t, token, JwtTokenFromContext(AttachJwtToken(c, token)))
}
