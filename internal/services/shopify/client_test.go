package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesync/internal/config"
	"storesync/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ShopDomain:      srv.URL,
		AdminToken:      "admin-token",
		StorefrontToken: "storefront-token",
		APIVersion:      "2025-01",
		ShopifyTimeout:  2 * time.Second,
	}
	return NewClient(cfg, logger.NewNop())
}

func TestExecuteAdminScope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2025-01/graphql.json", r.URL.Path)
		assert.Equal(t, "admin-token", r.Header.Get("X-Shopify-Access-Token"))
		assert.Empty(t, r.Header.Get("X-Shopify-Storefront-Access-Token"))

		var req graphQLRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "query { shop { name } }", req.Query)
		assert.EqualValues(t, 50, req.Variables["first"])

		w.Write([]byte(`{"data":{"shop":{"name":"Demo"}}}`))
	})

	data, err := client.Execute(context.Background(), ScopeAdmin, "query { shop { name } }", map[string]interface{}{"first": 50})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shop":{"name":"Demo"}}`, string(data))
}

func TestExecuteStorefrontScope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2025-01/graphql.json", r.URL.Path)
		assert.Equal(t, "storefront-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		assert.Empty(t, r.Header.Get("X-Shopify-Access-Token"))
		w.Write([]byte(`{"data":{"cart":null}}`))
	})

	data, err := client.Execute(context.Background(), ScopeStorefront, CartQuery, map[string]interface{}{"id": "c1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cart":null}`, string(data))
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "http status",
			status: http.StatusUnauthorized,
			body:   `{"errors":"Invalid API key"}`,
			checkFn: func(t *testing.T, err error) {
				var statusErr *HTTPStatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
				assert.Contains(t, statusErr.Body, "Invalid API key")
			},
		},
		{
			name:   "non json",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			checkFn: func(t *testing.T, err error) {
				var malformed *MalformedResponseError
				assert.ErrorAs(t, err, &malformed)
			},
		},
		{
			name:   "missing data",
			status: http.StatusOK,
			body:   `{"extensions":{}}`,
			checkFn: func(t *testing.T, err error) {
				var malformed *MalformedResponseError
				assert.ErrorAs(t, err, &malformed)
			},
		},
		{
			name:   "graphql errors",
			status: http.StatusOK,
			body:   `{"data":null,"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`,
			checkFn: func(t *testing.T, err error) {
				var gqlErr *GraphQLError
				require.ErrorAs(t, err, &gqlErr)
				require.Len(t, gqlErr.Errors, 1)
				assert.Equal(t, "Throttled", gqlErr.Errors[0].Message)
				assert.Contains(t, err.Error(), "Throttled")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Execute(context.Background(), ScopeAdmin, "{ shop { name } }", nil)
			require.Error(t, err)
			assert.True(t, IsRemoteError(err))
			tt.checkFn(t, err)
		})
	}
}

func TestExecuteTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(&config.Config{
		ShopDomain:     srv.URL,
		ShopifyTimeout: 50 * time.Millisecond,
	}, logger.NewNop())

	_, err := client.Execute(context.Background(), ScopeAdmin, "{ shop { name } }", nil)
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestIsRemoteError(t *testing.T) {
	assert.False(t, IsRemoteError(errors.New("local")))
	assert.True(t, IsRemoteError(&TransportError{Err: errors.New("dial")}))
}

func TestShopBaseURL(t *testing.T) {
	assert.Equal(t, "https://demo.myshopify.com", shopBaseURL("demo"))
	assert.Equal(t, "https://demo.myshopify.com", shopBaseURL("demo.myshopify.com/"))
	assert.Equal(t, "http://127.0.0.1:9000", shopBaseURL("http://127.0.0.1:9000"))
}

func TestAPIVersionFallback(t *testing.T) {
	client := NewClient(&config.Config{ShopDomain: "demo"}, logger.NewNop())
	assert.Equal(t, config.DefaultAPIVersion, client.APIVersion())
}
