package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/middleware"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/service/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newRouter mounts the handler behind real token authentication.
func newRouter(t *testing.T, svc *mocks.Marketplace) (http.Handler, *middleware.Authenticator) {
	t.Helper()
	auth := middleware.NewAuthenticator("test-secret")
	r := chi.NewRouter()
	r.Use(auth.Authenticate)
	api.HandlerFromMux(NewApiHandler(svc), r)
	return r, auth
}

func send(t *testing.T, h http.Handler, auth *middleware.Authenticator, actor models.Actor, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.Sign(actor, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouting(t *testing.T) {
	driver := models.Actor{ID: "driver-1", Role: models.DRIVER, Name: "Budi"}
	seller := models.Actor{ID: "seller-1", Role: models.SELLER}

	t.Run("Transition binds the path and the token actor", func(t *testing.T) {
		svc := new(mocks.Marketplace)
		svc.On("Transition", mock.Anything, "order-42", models.DRIVER_EN_ROUTE_PICKUP, driver).
			Return(&models.Order{Id: "order-42", Status: models.DRIVER_EN_ROUTE_PICKUP}, nil).Once()
		h, auth := newRouter(t, svc)

		rr := send(t, h, auth, driver, http.MethodPost, "/orders/order-42/transitions", `{"target_status":"DRIVER_EN_ROUTE_PICKUP"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("List binds query parameters", func(t *testing.T) {
		svc := new(mocks.Marketplace)
		svc.On("ListOrders", mock.Anything, models.OrderFilter{SellerID: "seller-1", Status: models.PENDING}).
			Return([]models.Order{}, nil).Once()
		h, auth := newRouter(t, svc)

		rr := send(t, h, auth, seller, http.MethodGet, "/orders?seller_id=seller-1&status=PENDING", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("Malformed boolean query", func(t *testing.T) {
		h, auth := newRouter(t, new(mocks.Marketplace))

		rr := send(t, h, auth, driver, http.MethodGet, "/orders?unassigned=maybe", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unassigned")
	})

	t.Run("Balance route", func(t *testing.T) {
		svc := new(mocks.Marketplace)
		svc.On("GetBalance", mock.Anything, "seller-1").Return(int64(18000), nil).Once()
		h, auth := newRouter(t, svc)

		rr := send(t, h, auth, seller, http.MethodGet, "/accounts/seller-1/balance", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"account_id":"seller-1","balance":18000}`, rr.Body.String())
	})

	t.Run("Missing token", func(t *testing.T) {
		h, _ := newRouter(t, new(mocks.Marketplace))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
