package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleaf/pharmakit"
	"github.com/medleaf/pharmakit/config"
)

func testClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = server.URL
	return NewClient(cfg, opts...)
}

func TestClient_SurfacesErrorBodyMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Out of stock"})
	}))

	err := c.Cart.Add(context.Background(), CartItem{ID: "p1", Quantity: 1})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Out of stock", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.ErrorIs(t, err, pharmakit.ErrRequestFailed)
}

func TestClient_GenericFallbackWhenBodyHasNoMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))

	err := c.Orders.UpdateStatus(context.Background(), "o1", "delivered")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed", apiErr.Message)
}

func TestClient_StatusSentinels(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, pharmakit.ErrUnauthorized},
		{http.StatusForbidden, pharmakit.ErrUnauthorized},
		{http.StatusNotFound, pharmakit.ErrNotFound},
		{http.StatusConflict, pharmakit.ErrConflict},
		{http.StatusBadGateway, pharmakit.ErrRequestFailed},
	}

	for _, tt := range tests {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := c.Orders.List(context.Background())
		assert.ErrorIs(t, err, tt.sentinel, "status %d", tt.status)
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}), WithTokenSource(StaticToken("tok-1")))

	_, err := c.Orders.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestClient_NoAuthHeaderWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte("[]"))
	}), WithTokenSource(StaticToken("")))

	_, err := c.Products.Related(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, hasAuth, "empty token means no Authorization header, got %q", gotAuth)
}

func TestClient_ProductTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.ProductTimeout = 20 * time.Millisecond
	c := NewClient(cfg)

	_, err := c.Products.Get(context.Background(), "p1")
	assert.ErrorIs(t, err, pharmakit.ErrTimeout)
}

func TestClient_DecodesProduct(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Product{ID: "p1", Name: "Cetirizine", Price: 6.5, Stock: 40})
	}))

	p, err := c.Products.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cetirizine", p.Name)
	assert.Equal(t, 40, p.Stock)
}

func TestClient_ConnectionFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1" // nothing listens here
	c := NewClient(cfg)

	_, err := c.Products.Related(context.Background(), "p1")
	assert.ErrorIs(t, err, pharmakit.ErrConnectionFailed)
}

func TestConsultation_SendsIdempotencyKey(t *testing.T) {
	var gotKey string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewEncoder(w).Encode(Booking{ID: "b1", Status: "confirmed"})
	}))

	booking, err := c.Consultations.CreateBooking(context.Background(), BookingRequest{
		DoctorID: "d1",
		Date:     "2026-09-10",
		Time:     "09:30",
		Fee:      500,
	}, "attempt-token-1")
	require.NoError(t, err)
	assert.Equal(t, "attempt-token-1", gotKey)
	assert.Equal(t, "confirmed", booking.Status)
}

func TestAvailability_DeleteUsesQueryParams(t *testing.T) {
	var gotQuery string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))

	err := c.Availability.Delete(context.Background(), Slot{Date: "2026-09-10", Time: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, "date=2026-09-10&time=09%3A30", gotQuery)
}

func TestOrders_UpdateStatusPatchesBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.Orders.UpdateStatus(context.Background(), "o9", "out-for-delivery"))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/orders/o9", gotPath)
	assert.Equal(t, "out-for-delivery", gotBody["status"])
}
