package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seller = models.Actor{ID: "seller-1", Role: models.SELLER, Name: "Toko"}

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = io.WriteString(w, actor.ID+"|"+string(actor.Role))
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	handler := auth.Authenticate(http.HandlerFunc(echoActor))

	t.Run("Valid token", func(t *testing.T) {
		token, err := auth.Sign(seller, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "seller-1|SELLER", rr.Body.String())
	})

	t.Run("Missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewAuthenticator("other-secret").Sign(seller, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token, err := auth.Sign(seller, -time.Minute)
		require.NoError(t, err)

		_, err = auth.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Unknown role", func(t *testing.T) {
		token, err := auth.Sign(models.Actor{ID: "x", Role: "GUEST"}, time.Hour)
		require.NoError(t, err)

		_, err = auth.Verify(token)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown role")
	})

	t.Run("Rejects other algorithms", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role:             "PLATFORM",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.Verify(signed)
		assert.Error(t, err)
	})
}

func TestStructuredLoggerRecordsActor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	auth := NewAuthenticator("test-secret")
	token, err := auth.Sign(seller, time.Hour)
	require.NoError(t, err)

	handler := middleware.RequestID(NewStructuredLogger(logger)(auth.Authenticate(http.HandlerFunc(echoActor))))
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request completed", line["msg"])
	actor, ok := line["actor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "seller-1", actor["id"])
	request := line["request"].(map[string]any)
	assert.NotEmpty(t, request["id"])
	assert.Equal(t, "/orders", request["path"])
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	limited := RateLimit(rdb, 2, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(actor *models.Actor) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if actor != nil {
			req = req.WithContext(WithActor(req.Context(), *actor))
		}
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusNoContent, call(&seller))
	assert.Equal(t, http.StatusNoContent, call(&seller))
	assert.Equal(t, http.StatusTooManyRequests, call(&seller))

	other := models.Actor{ID: "buyer-1", Role: models.BUYER}
	assert.Equal(t, http.StatusNoContent, call(&other))

	t.Run("Counter always carries the window", func(t *testing.T) {
		assert.Equal(t, time.Minute, mr.TTL("rate_limit:seller-1"))
		assert.Equal(t, time.Minute, mr.TTL("rate_limit:buyer-1"))
	})

	t.Run("Window reopens after expiry", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		assert.False(t, mr.Exists("rate_limit:seller-1"))
		assert.Equal(t, http.StatusNoContent, call(&seller))
	})

	t.Run("Counter left without expiry gets one", func(t *testing.T) {
		require.NoError(t, mr.Set("rate_limit:stuck", "5"))
		stuck := models.Actor{ID: "stuck", Role: models.BUYER}
		assert.Equal(t, http.StatusTooManyRequests, call(&stuck))
		assert.Equal(t, time.Minute, mr.TTL("rate_limit:stuck"))
	})

	t.Run("Fails open without Redis", func(t *testing.T) {
		down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		handler := RateLimit(down, 1, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
