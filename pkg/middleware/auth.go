package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer token payload. The subject is the account id.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type actorKey struct{}

// ActorFromContext returns the authenticated actor placed on the context by Authenticate.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(models.Actor)
	return a, ok
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Authenticator signs and verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator for the shared secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// Sign issues a token for actor that expires after ttl.
func (a *Authenticator) Sign(actor models.Actor, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		Role: string(actor.Role),
		Name: actor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.secret)
}

// Verify parses a token and returns the actor it names.
func (a *Authenticator) Verify(token string) (models.Actor, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return models.Actor{}, err
	}
	if !parsed.Valid {
		return models.Actor{}, errors.New("token is not valid")
	}

	actor := models.Actor{ID: claims.Subject, Role: models.Role(claims.Role), Name: claims.Name}
	if actor.ID == "" {
		return models.Actor{}, errors.New("token has no subject")
	}
	if !actor.Role.Valid() {
		return models.Actor{}, fmt.Errorf("token has unknown role %q", claims.Role)
	}
	return actor, nil
}

// Authenticate rejects requests without a valid bearer token and puts the actor on the context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="jastip"`)
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		actor, err := a.Verify(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}

		recordActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
