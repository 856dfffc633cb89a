package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the identity claims the service cares about. Groups holds
// the raw identity-provider group names, not yet mapped to roles.
type Claims struct {
	Subject string
	Email   string
	Groups  []string
}

// Verifier validates a raw bearer token and extracts its claims.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Claims, error)
}

// JWKSVerifier validates RS256 tokens against a remote key set, refreshing
// keys in the background so provider key rotation needs no restart.
type JWKSVerifier struct {
	cache    *jwk.Cache
	jwksURL  string
	audience string
	issuer   string
}

func NewJWKSVerifier(ctx context.Context, jwksURL, audience, issuer string) (*JWKSVerifier, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register jwks url: %w", err)
	}
	// Fail fast on an unreachable key set rather than on the first request.
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	return &JWKSVerifier{
		cache:    cache,
		jwksURL:  jwksURL,
		audience: audience,
		issuer:   issuer,
	}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (Claims, error) {
	set, err := v.cache.Get(ctx, v.jwksURL)
	if err != nil {
		return Claims{}, fmt.Errorf("load jwks: %w", err)
	}

	options := []jwt.ParseOption{
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(30 * time.Second),
	}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	tok, err := jwt.Parse([]byte(raw), options...)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	return claimsFromToken(tok)
}

// StaticVerifier validates HS256 tokens with a shared secret. Used in local
// development and tests where no identity provider is running.
type StaticVerifier struct {
	auth *jwtauth.JWTAuth
}

func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{
		auth: jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// JWTAuth exposes the underlying authenticator so tests can mint tokens.
func (v *StaticVerifier) JWTAuth() *jwtauth.JWTAuth {
	return v.auth
}

func (v *StaticVerifier) Verify(ctx context.Context, raw string) (Claims, error) {
	tok, err := jwtauth.VerifyToken(v.auth, raw)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return claimsFromToken(tok)
}

func claimsFromToken(tok jwt.Token) (Claims, error) {
	claims := Claims{Subject: tok.Subject()}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	if email, ok := tok.Get("email"); ok {
		if s, ok := email.(string); ok {
			claims.Email = s
		}
	}

	if raw, ok := tok.Get("groups"); ok {
		switch groups := raw.(type) {
		case []interface{}:
			for _, g := range groups {
				if s, ok := g.(string); ok {
					claims.Groups = append(claims.Groups, s)
				}
			}
		case []string:
			claims.Groups = groups
		}
	}

	return claims, nil
}
