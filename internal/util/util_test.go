package util

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret-with-32-characters!"

func TestParseJWT(t *testing.T) {
	token, err := GenerateJWT("dev@example.com", "user-1", "issuer", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret, "issuer")
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", claims.Identity())

	_, err = ParseJWT(token, secret, "another-issuer")
	assert.Error(t, err)
}

func TestParseJWTFallsBackToSubject(t *testing.T) {
	token, err := GenerateJWT("", "user-1", "", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret, "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Identity())

	token, err = GenerateJWT("", "", "", secret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(token, secret, "")
	assert.Error(t, err)
}

func TestParseJWTRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Email:            "dev@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT(token, secret, "")
	assert.Error(t, err)
}

func TestParseJWTRequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "dev@example.com"}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseJWT(token, secret, "")
	assert.Error(t, err)
}

func TestValidateMimeType(t *testing.T) {
	mime, err := ValidateMimeType(bytes.NewReader([]byte("%PDF-1.7\n%âãÏÓ\n")), []string{MimePDF})
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mime)

	_, err = ValidateMimeType(strings.NewReader("just some text"), []string{MimePDF})
	assert.ErrorIs(t, err, ErrFileType)
}

func TestIsSupportedLanguage(t *testing.T) {
	assert.True(t, IsSupportedLanguage("java"))
	assert.True(t, IsSupportedLanguage("cpp"))
	assert.False(t, IsSupportedLanguage("python"))
	assert.False(t, IsSupportedLanguage("Java"))
}
