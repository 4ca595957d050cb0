package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTManager_NoSecret(t *testing.T) {
	assert.Nil(t, NewJWTManager(""))
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret")

	token, err := m.GenerateToken("user-1", "u@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, AuthenticatedRole, claims.Role)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken("user-1", "u@example.com", time.Hour)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrFailedToParseToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one").GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("two").ValidateToken(token)
	assert.ErrorIs(t, err, ErrFailedToParseToken)
}

func TestJWTManager_MissingSubject(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTManager("secret").ValidateToken(token)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestJWTManager_RejectsNoneAlg(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"", "", ErrAuthHeaderEmpty},
		{"Basic abc", "", ErrAuthHeaderWrongFormat},
		{"Bearer", "", ErrAuthHeaderWrongFormat},
		{"Bearer    ", "", ErrAuthHeaderWrongFormat},
		{"bearer abc", "", ErrAuthHeaderWrongFormat},
	}
	for _, tt := range tests {
		got, err := ExtractTokenFromHeader(tt.header)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.header)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
