package errors

import "errors"

var (
	ErrIdentityMissing  = errors.New("missing identity")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductExist     = errors.New("product already exist")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidAction    = errors.New("unrecognized action")
)
