package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MockIdentityProvider mints RS256 tokens for local development and
// serves the matching JWKS, standing in for the real identity provider.
type MockIdentityProvider struct {
	key      *rsa.PrivateKey
	keyID    string
	issuer   string
	audience string
	tokenTTL time.Duration
}

func NewMockIdentityProvider(issuer, audience string, tokenTTL time.Duration) (*MockIdentityProvider, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &MockIdentityProvider{
		key:      key,
		keyID:    uuid.New().String(),
		issuer:   issuer,
		audience: audience,
		tokenTTL: tokenTTL,
	}, nil
}

// TokenRequest asks for a token on behalf of a subject.
type TokenRequest struct {
	Subject string `json:"subject" binding:"required"`
}

// TokenResponse carries the minted token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (p *MockIdentityProvider) mintToken(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": p.issuer,
		"aud": p.audience,
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(p.tokenTTL).Unix(),
	})
	token.Header["kid"] = p.keyID
	return token.SignedString(p.key)
}

func (p *MockIdentityProvider) jwks() gin.H {
	pub := p.key.PublicKey
	return gin.H{
		"keys": []gin.H{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": p.keyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   "AQAB",
		}},
	}
}

type Handler struct {
	provider *MockIdentityProvider
}

func NewHandler(provider *MockIdentityProvider) *Handler {
	return &Handler{provider: provider}
}

// IssueToken mints a token for the requested subject
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	token, err := h.provider.mintToken(req.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to sign token",
		})
		return
	}

	log.Info().
		Str("subject", req.Subject).
		Str("kid", h.provider.keyID).
		Msg("Token issued")

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.provider.tokenTTL.Seconds()),
	})
}

// GetJWKS serves the public signing keys
func (h *Handler) GetJWKS(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.jwks())
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"kid":    h.provider.keyID,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	router.POST("/token", handler.IssueToken)
	router.GET("/.well-known/jwks.json", handler.GetJWKS)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	issuer := getEnv("TOKEN_ISSUER", "https://localhost:"+port+"/")
	audience := getEnv("TOKEN_AUDIENCE", "card-orders-api")
	ttl := getEnvDuration("TOKEN_TTL", time.Hour)

	provider, err := NewMockIdentityProvider(issuer, audience, ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate signing key")
	}

	log.Info().
		Str("port", port).
		Str("issuer", issuer).
		Str("audience", audience).
		Dur("token_ttl", ttl).
		Msg("Starting Mock Identity Provider")

	handler := NewHandler(provider)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
