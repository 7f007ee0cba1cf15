// Package idempotency makes retried POST requests safe by replaying the first response
// stored under the caller's Idempotency-Key.
package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/jastip-settlement/pkg/middleware"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// Header is the request header carrying the client's key.
const Header = "Idempotency-Key"

// ReplayedHeader is set on responses served from a stored record.
const ReplayedHeader = "Idempotent-Replayed"

// DefaultTTL is how long a key and its response are remembered.
const DefaultTTL = 24 * time.Hour

const keyFormat = "idem:%s:%s"

type state string

const (
	pending  state = "pending"
	complete state = "complete"
)

// record is what is stored under a key.
type record struct {
	State       state  `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Keys stores idempotency records in Redis.
type Keys struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Keys store. A non-positive ttl falls back to DefaultTTL.
func New(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *Keys {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Keys{rdb: rdb, ttl: ttl, logger: logger}
}

// Middleware replays the stored response for a repeated key. Requests that are not POSTs or carry
// no key pass through.
// Keys are scoped to the authenticated actor, so it must run after authentication.
// A key is released again when the handler answers with a server error or panics, so the client may retry.
func (k *Keys) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientKey := r.Header.Get(Header)
		if clientKey == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		owner := r.RemoteAddr
		if actor, ok := middleware.ActorFromContext(ctx); ok {
			owner = actor.ID
		}
		key := fmt.Sprintf(keyFormat, owner, clientKey)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		fingerprint := fingerprintOf(r, body)

		reserved, existing, err := k.reserve(r, key, fingerprint)
		if err != nil {
			k.logger.WarnContext(ctx, "idempotency store unavailable", slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}
		if !reserved {
			k.answerExisting(w, existing, fingerprint)
			return
		}

		// A panicking handler must not leave the key pending until it expires.
		defer func() {
			if rvr := recover(); rvr != nil {
				k.release(r, key)
				panic(rvr)
			}
		}()

		var captured bytes.Buffer
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&captured)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status >= http.StatusInternalServerError {
			k.release(r, key)
			return
		}

		done := record{
			State:       complete,
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: ww.Header().Get("Content-Type"),
			Body:        captured.Bytes(),
		}
		data, err := json.Marshal(done)
		if err == nil {
			err = k.rdb.Set(ctx, key, data, k.ttl).Err()
		}
		if err != nil {
			k.logger.ErrorContext(ctx, "failed to store idempotent response", slog.String("key", key), slog.Any("error", err))
		}
	})
}

// release deletes key so the client may retry.
func (k *Keys) release(r *http.Request, key string) {
	ctx := context.WithoutCancel(r.Context())
	if err := k.rdb.Del(ctx, key).Err(); err != nil {
		k.logger.WarnContext(ctx, "failed to release idempotency key", slog.String("key", key), slog.Any("error", err))
	}
}

// reserve claims key for this request. If the key is already taken it returns the stored record.
func (k *Keys) reserve(r *http.Request, key, fingerprint string) (bool, *record, error) {
	ctx := r.Context()
	data, err := json.Marshal(record{State: pending, Fingerprint: fingerprint})
	if err != nil {
		return false, nil, err
	}

	ok, err := k.rdb.SetNX(ctx, key, data, k.ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if ok {
		return true, nil, nil
	}

	raw, err := k.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; claim it again.
		return k.reserve(r, key, fingerprint)
	}
	if err != nil {
		return false, nil, err
	}
	var existing record
	if err := json.Unmarshal(raw, &existing); err != nil {
		return false, nil, fmt.Errorf("failed to decode idempotency record: %w", err)
	}
	return false, &existing, nil
}

func (k *Keys) answerExisting(w http.ResponseWriter, existing *record, fingerprint string) {
	if existing.Fingerprint != fingerprint {
		http.Error(w, "Idempotency-Key was already used for a different request", http.StatusUnprocessableEntity)
		return
	}
	if existing.State == pending {
		http.Error(w, "A request with this Idempotency-Key is still in progress", http.StatusConflict)
		return
	}

	if existing.ContentType != "" {
		w.Header().Set("Content-Type", existing.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(existing.Status)
	_, _ = w.Write(existing.Body)
}

func fingerprintOf(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
