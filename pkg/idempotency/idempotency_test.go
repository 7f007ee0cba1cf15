package idempotency

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/chris/jastip-settlement/pkg/middleware"
	"github.com/chris/jastip-settlement/pkg/models"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buyer = models.Actor{ID: "buyer-1", Role: models.BUYER}

func newKeys(t *testing.T) (*Keys, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func post(h http.Handler, actor models.Actor, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	if key != "" {
		req.Header.Set(Header, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware(t *testing.T) {
	t.Run("Replays the first response", func(t *testing.T) {
		keys, mr := newKeys(t)
		var calls atomic.Int32
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := calls.Add(1)
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"call":%d,"echo":%s}`, n, body)
		}))

		first := post(h, buyer, "abc", `{"qty":1}`)
		second := post(h, buyer, "abc", `{"qty":1}`)

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
		assert.Equal(t, "true", second.Header().Get(ReplayedHeader))
		assert.Empty(t, first.Header().Get(ReplayedHeader))
		assert.Equal(t, time.Hour, mr.TTL("idem:buyer-1:abc"))
	})

	t.Run("Keys are scoped per actor", func(t *testing.T) {
		keys, _ := newKeys(t)
		var calls atomic.Int32
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusCreated)
		}))

		post(h, buyer, "abc", `{}`)
		post(h, models.Actor{ID: "buyer-2", Role: models.BUYER}, "abc", `{}`)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Different body with the same key", func(t *testing.T) {
		keys, _ := newKeys(t)
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		post(h, buyer, "abc", `{"qty":1}`)
		rr := post(h, buyer, "abc", `{"qty":2}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("In-flight request", func(t *testing.T) {
		keys, _ := newKeys(t)
		release := make(chan struct{})
		started := make(chan struct{})
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-release
			w.WriteHeader(http.StatusCreated)
		}))

		done := make(chan *httptest.ResponseRecorder)
		go func() { done <- post(h, buyer, "abc", `{}`) }()
		<-started

		rr := post(h, buyer, "abc", `{}`)
		assert.Equal(t, http.StatusConflict, rr.Code)

		close(release)
		assert.Equal(t, http.StatusCreated, (<-done).Code)
	})

	t.Run("Server errors release the key", func(t *testing.T) {
		keys, mr := newKeys(t)
		var calls atomic.Int32
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))

		assert.Equal(t, http.StatusInternalServerError, post(h, buyer, "abc", `{}`).Code)
		assert.False(t, mr.Exists("idem:buyer-1:abc"))
		assert.Equal(t, http.StatusCreated, post(h, buyer, "abc", `{}`).Code)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Panics release the key", func(t *testing.T) {
		keys, mr := newKeys(t)
		var calls atomic.Int32
		h := chimiddleware.Recoverer(keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				panic("nil order")
			}
			w.WriteHeader(http.StatusCreated)
		})))

		assert.Equal(t, http.StatusInternalServerError, post(h, buyer, "abc", `{}`).Code)
		assert.False(t, mr.Exists("idem:buyer-1:abc"))
		assert.Equal(t, http.StatusCreated, post(h, buyer, "abc", `{}`).Code)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Client errors are remembered", func(t *testing.T) {
		keys, _ := newKeys(t)
		var calls atomic.Int32
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
		}))

		post(h, buyer, "abc", `{}`)
		rr := post(h, buyer, "abc", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "Insufficient funds\n", rr.Body.String())
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("No header passes through", func(t *testing.T) {
		keys, mr := newKeys(t)
		var calls atomic.Int32
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))

		post(h, buyer, "", `{}`)
		post(h, buyer, "", `{}`)
		assert.Equal(t, int32(2), calls.Load())
		assert.Empty(t, mr.Keys())
	})

	t.Run("Fails open without Redis", func(t *testing.T) {
		down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		keys := New(down, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
		h := keys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		require.Equal(t, http.StatusCreated, post(h, buyer, "abc", `{}`).Code)
	})
}
