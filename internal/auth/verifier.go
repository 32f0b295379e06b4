package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidClaims is returned when the issuer, audience or subject
	// do not check out.
	ErrInvalidClaims = errors.New("incorrect claims")
)

// TokenVerifier checks a bearer token and yields the subject it was
// issued for.
type TokenVerifier interface {
	Verify(tokenString string) (subject string, err error)
}

// Verifier validates RS256 tokens against a JWKS endpoint.
type Verifier struct {
	keys     keyfunc.Keyfunc
	issuer   string
	audience string
}

// NewVerifier fetches the signing keys from the issuer domain's JWKS
// endpoint. The key set refreshes itself in the background.
func NewVerifier(ctx context.Context, domain, audience string) (*Verifier, error) {
	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
	keys, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks from %s: %w", jwksURL, err)
	}
	return &Verifier{
		keys:     keys,
		issuer:   fmt.Sprintf("https://%s/", domain),
		audience: audience,
	}, nil
}

// NewVerifierWithKeyfunc builds a Verifier around an already loaded key
// set. Used by tests and by deployments serving their own keys.
func NewVerifierWithKeyfunc(keys keyfunc.Keyfunc, issuer, audience string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer, audience: audience}
}

func (v *Verifier) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer),
			errors.Is(err, jwt.ErrTokenInvalidAudience):
			return "", ErrInvalidClaims
		default:
			return "", ErrInvalidToken
		}
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidClaims
	}
	return subject, nil
}
