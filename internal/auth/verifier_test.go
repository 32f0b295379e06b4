package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://identity.test/"
	testAudience = "card-orders-api"
	testKeyID    = "test-key"
)

func testVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := fmt.Sprintf(`{"keys":[{"kty":"RSA","use":"sig","alg":"RS256","kid":%q,"n":%q,"e":"AQAB"}]}`,
		testKeyID, base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()))
	keys, err := keyfunc.NewJWKSetJSON(json.RawMessage(jwks))
	require.NoError(t, err)

	return NewVerifierWithKeyfunc(keys, testIssuer, testAudience), key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifierAcceptsValidToken(t *testing.T) {
	v, key := testVerifier(t)

	subject, err := v.Verify(signToken(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestVerifierRejectsExpiredToken(t *testing.T) {
	v, key := testVerifier(t)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := v.Verify(signToken(t, key, claims))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifierRejectsWrongIssuer(t *testing.T) {
	v, key := testVerifier(t)

	claims := validClaims()
	claims["iss"] = "https://someone-else.test/"

	_, err := v.Verify(signToken(t, key, claims))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestVerifierRejectsWrongAudience(t *testing.T) {
	v, key := testVerifier(t)

	claims := validClaims()
	claims["aud"] = "other-api"

	_, err := v.Verify(signToken(t, key, claims))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestVerifierRejectsMissingSubject(t *testing.T) {
	v, key := testVerifier(t)

	claims := validClaims()
	delete(claims, "sub")

	_, err := v.Verify(signToken(t, key, claims))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestVerifierRejectsWrongSigningMethod(t *testing.T) {
	v, _ := testVerifier(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = v.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierRejectsGarbage(t *testing.T) {
	v, _ := testVerifier(t)

	_, err := v.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierRejectsTokenSignedByUnknownKey(t *testing.T) {
	v, _ := testVerifier(t)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	_, err = v.Verify(signToken(t, other, validClaims()))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
