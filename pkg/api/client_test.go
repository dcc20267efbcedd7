package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
	client := NewClient(server.URL, 0, sess, zap.NewNop())
	return client, sess, server
}

func TestAuthHeaderAttachedWhenAuthenticated(t *testing.T) {
	var gotAuth string
	client, sess, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	_, err := client.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	require.NoError(t, sess.SetAuth("tok-123", "alice"))
	_, err = client.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestCallerHeadersCannotSuppressAuth(t *testing.T) {
	var gotAuth, gotContentType string
	client, sess, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	require.NoError(t, sess.SetAuth("tok-123", "alice"))

	_, _, err := client.do(context.Background(), http.MethodGet, "/cart", nil, map[string]string{
		"Authorization": "Bearer forged",
		"Content-Type":  "text/plain",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth, "auth header is applied last and wins")
	assert.Equal(t, "text/plain", gotContentType, "other caller headers override defaults")
}

func TestErrorDetailExtracted(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestErrorBodyWithoutDetailSurfacedVerbatim(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "boom"}`))
	}))

	_, err := client.Products(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, `{"error":"boom"}`, apiErr.Message)
}

func TestUnparsableErrorBodyFallsBackToGenericMessage(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))

	_, err := client.Products(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, genericMessage, apiErr.Message)
}

func TestNonJSONSuccessReturnsText(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}))

	data, isJSON, err := client.do(context.Background(), http.MethodGet, "/ping", nil, nil)
	require.NoError(t, err)
	assert.False(t, isJSON)
	assert.Equal(t, "pong", string(data))
}

func TestTypedDecoding(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products/3":
			w.Write([]byte(`{"product_id":3,"name":"Desk Mat","price":19,"stock_quantity":60}`))
		case "/order/place":
			w.Write([]byte(`{"order_id":7,"total_amount":19,"status":"COMPLETED"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	product, err := client.Product(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), product.ProductID)
	assert.Equal(t, "Desk Mat", product.Name)

	placed, err := client.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), placed.OrderID)
	assert.Equal(t, "COMPLETED", placed.Status)
}

func TestLoginReturnsAccessToken(t *testing.T) {
	client, sess, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-9","token_type":"bearer"}`))
	}))

	token, err := client.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-9", token)
	assert.False(t, sess.Authenticated(), "login does not mutate the session store")
}
