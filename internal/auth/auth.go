// Package auth turns session tokens into store scopes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/store"
)

const (
	GuestScope      = "guest"
	UserScopePrefix = "user_"
)

var ErrUnauthenticated = errors.New("invalid session token")

// Identity is the tenant a request acts for.
type Identity struct {
	Scope         string
	Authenticated bool
}

var Guest = Identity{Scope: GuestScope}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the clock used to stamp and check expiry.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue returns a token for userID.
func (i *Issuer) Issue(userID string) (string, error) {
	if _, err := ScopeFor(userID); err != nil {
		return "", err
	}

	now := i.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Parse verifies token and returns the identity it carries.
func (i *Issuer) Parse(token string) (Identity, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	scope, err := ScopeFor(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return Identity{Scope: scope, Authenticated: true}, nil
}

// TokenScope resolves the scope of a fixed token, as used by the command line
// tools. An empty token is a guest.
func (i *Issuer) TokenScope(token string) func(context.Context) (string, bool, error) {
	return func(context.Context) (string, bool, error) {
		if token == "" {
			return GuestScope, false, nil
		}

		id, err := i.Parse(token)
		if err != nil {
			return "", false, err
		}

		return id.Scope, true, nil
	}
}

// ScopeFor returns the store scope of userID.
func ScopeFor(userID string) (string, error) {
	if userID == "" || strings.Contains(userID, store.Separator) {
		return "", fmt.Errorf("%w: user id %q", store.ErrInvalidScope, userID)
	}

	return UserScopePrefix + userID, nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, or Guest.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id
	}

	return Guest
}

// ContextScope resolves the scope of the identity stored in ctx.
func ContextScope(ctx context.Context) (string, bool, error) {
	id := FromContext(ctx)
	return id.Scope, id.Authenticated, nil
}

// Middleware attaches the request's identity. Requests without a bearer token
// act as the guest; requests with an invalid one are rejected.
func Middleware(i *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Guest)))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			id, err := i.Parse(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
