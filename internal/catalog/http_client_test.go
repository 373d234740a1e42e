package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Product{
			ID: "p1", Name: "Cheddar", Category: "dairy",
			Price: 7.00, DiscountPrice: 5.00, Discounted: true,
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(Options{BaseURL: srv.URL})
	product, err := client.Resolve(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cheddar", product.Name)
	assert.Equal(t, "dairy", product.Category)
	assert.InDelta(t, 5.00, product.EffectivePrice(), 1e-9)
}

func TestHTTPClient_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(Options{BaseURL: srv.URL, RetryCount: 3, RetryWait: time.Millisecond})
	_, err := client.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPClient_ServerErrorRetriesThenUnavailable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(Options{BaseURL: srv.URL, RetryCount: 2, RetryWait: time.Millisecond})
	_, err := client.Resolve(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), hits.Load())
}

func TestHTTPClient_RecoversWithinRetryBudget(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Product{ID: "p1", Name: "Milk", Category: "dairy", Price: 3.50})
	}))
	defer srv.Close()

	client := NewHTTPClient(Options{BaseURL: srv.URL, RetryCount: 2, RetryWait: time.Millisecond})
	product, err := client.Resolve(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Milk", product.Name)
	assert.InDelta(t, 3.50, product.EffectivePrice(), 1e-9)
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewHTTPClient(Options{BaseURL: srv.URL, RetryWait: time.Millisecond})
	_, err := client.Resolve(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := NewHTTPClient(Options{BaseURL: srv.URL, RetryCount: 0})
	_, err := client.Resolve(ctx, "p1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
