package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthenticatedRole is the role Supabase puts into user access tokens.
const AuthenticatedRole = "authenticated"

// Claims of a Supabase access token
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager verifies access tokens signed with the project JWT secret
type JWTManager struct {
	secretKey string
	now       func() time.Time
}

// NewJWTManager returns nil when no secret is configured
func NewJWTManager(secret string) *JWTManager {
	if secret == "" {
		return nil
	}
	return &JWTManager{secretKey: secret, now: time.Now}
}

// GenerateToken issues an access token shaped like the ones Supabase issues
func (j *JWTManager) GenerateToken(userID, email string, expiry time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		Email: email,
		Role:  AuthenticatedRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			Audience:  jwt.ClaimStrings{AuthenticatedRole},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", ErrFailedToGenerateToken
	}
	return signed, nil
}

// ValidateToken validates signature, expiry and subject and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, ErrFailedToParseToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}

// ExtractTokenFromHeader strips the Bearer prefix from an Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrAuthHeaderEmpty
	}

	const bearerPrefix = "Bearer "
	if len(authHeader) < len(bearerPrefix) || authHeader[:len(bearerPrefix)] != bearerPrefix {
		return "", ErrAuthHeaderWrongFormat
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrAuthHeaderWrongFormat
	}
	return token, nil
}
