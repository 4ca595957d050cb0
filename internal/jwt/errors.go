package jwt

import "errors"

var (
	ErrAuthHeaderEmpty         = errors.New("authorization header is empty")
	ErrAuthHeaderWrongFormat   = errors.New("authorization header format must be Bearer {token}")
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
	ErrFailedToParseToken      = errors.New("failed to parse token")
	ErrInvalidToken            = errors.New("invalid token")
	ErrMissingSubject          = errors.New("token has no subject")
	ErrFailedToGenerateToken   = errors.New("failed to generate token")
)
