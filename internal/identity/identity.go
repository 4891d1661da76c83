// Package identity resolves the authenticated owner of a request from a
// signed HS256 token carried in a cookie or a bearer header.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "auth_token"

var (
	ErrMissingToken = errors.New("access denied, no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated caller.
type Identity struct {
	OwnerID string
	Email   string
	Name    string
}

// Claims is the token payload. The owner id is read from "id" and falls back
// to the registered "sub" claim.
type Claims struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret     []byte
	cookieName string
	parser     *jwt.Parser
}

func NewVerifier(secret, cookieName string) *Verifier {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Verifier{
		secret:     []byte(secret),
		cookieName: cookieName,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second)),
	}
}

// Verify checks the signature and expiry of raw and returns its identity.
func (v *Verifier) Verify(raw string) (Identity, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	owner := strings.TrimSpace(claims.ID)
	if owner == "" {
		owner = strings.TrimSpace(claims.Subject)
	}
	if owner == "" {
		return Identity{}, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return Identity{OwnerID: owner, Email: claims.Email, Name: claims.Name}, nil
}

// FromRequest reads the token from the auth cookie, then from an
// "Authorization: Bearer" header.
func (v *Verifier) FromRequest(r *http.Request) (Identity, error) {
	raw := ""
	if c, err := r.Cookie(v.cookieName); err == nil {
		raw = strings.TrimSpace(c.Value)
	}
	if raw == "" {
		if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			raw = strings.TrimSpace(h[7:])
		}
	}
	if raw == "" {
		return Identity{}, ErrMissingToken
	}
	return v.Verify(raw)
}

// Sign issues a token for id valid for ttl.
func (v *Verifier) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    id.OwnerID,
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.OwnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

type contextKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by Middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok && id.OwnerID != ""
}

// OwnerID is FromContext reduced to the owner id; empty when unauthenticated.
func OwnerID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.OwnerID
}
