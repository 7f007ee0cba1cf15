package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/service"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidCheckout, http.StatusBadRequest},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrInvalidRequest, http.StatusBadRequest},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("failed to get recipient account: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidTransition, http.StatusConflict},
		{service.ErrAlreadyExists, http.StatusConflict},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{service.ErrInsufficientStock, http.StatusUnprocessableEntity},
		{service.ErrUnverified, http.StatusUnprocessableEntity},
		{service.ErrBelowMinimum, http.StatusUnprocessableEntity},
		{errors.New("dynamodb unavailable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, "Failed to withdraw", service.ErrUnverified)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to withdraw: account is not verified")
}

func TestOwnerOrPlatform(t *testing.T) {
	assert.True(t, OwnerOrPlatform(models.Actor{ID: "seller-1", Role: models.SELLER}, "seller-1"))
	assert.True(t, OwnerOrPlatform(models.Actor{ID: "admin", Role: models.PLATFORM}, "seller-1"))
	assert.False(t, OwnerOrPlatform(models.Actor{ID: "buyer-1", Role: models.BUYER}, "seller-1"))
}
