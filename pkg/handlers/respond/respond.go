// Package respond holds the response helpers shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/jastip-settlement/pkg/middleware"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/service"
)

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCheckout),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrUnverified),
		errors.Is(err, service.ErrBelowMinimum):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error writes a plain-text error prefixed with msg, using the status that matches err.
func Error(w http.ResponseWriter, msg string, err error) {
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), StatusFor(err))
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Decode reads a JSON request body into v. It answers 400 and returns false when the body is invalid.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// Actor returns the authenticated caller. It answers 401 and returns false when there is none.
func Actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return actor, ok
}

// OwnerOrPlatform reports whether actor may read the account accountID.
func OwnerOrPlatform(actor models.Actor, accountID string) bool {
	return actor.ID == accountID || actor.Role == models.PLATFORM
}
