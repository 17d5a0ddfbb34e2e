package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scansafe/backend/internal/domain"
)

func TestGetByBarcode(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes a catalog hit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v2/product/3017620422003.json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"status": 1,
				"product": {
					"product_name": "Hazelnut spread",
					"brands": "Acme",
					"ingredients_text": "sugar, hazelnuts, milk powder",
					"allergens": "en:milk,en:nuts"
				}
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "en")
		record, err := client.GetByBarcode(ctx, "3017620422003")
		require.NoError(t, err)
		require.Equal(t, "Hazelnut spread", record.Name)
		require.Equal(t, "Acme", record.Brand)
		require.Equal(t, "sugar, hazelnuts, milk powder", record.Ingredients)
		require.Equal(t, "milk, nuts", record.Allergens)
		require.Equal(t, domain.TierCatalog, record.Tier)
	})

	t.Run("status zero means not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "en")
		_, err := client.GetByBarcode(ctx, "0000000000000")
		require.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("HTTP 404 means not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "en")
		_, err := client.GetByBarcode(ctx, "0000000000000")
		require.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("retries transient server errors before succeeding", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"status": 1, "product": {"product_name": "Juice"}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "en")
		record, err := client.GetByBarcode(ctx, "111")
		require.NoError(t, err)
		require.Equal(t, "Juice", record.Name)
		require.Equal(t, 3, attempts)
	})

	t.Run("persistent server errors surface as tier failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, "en")
		_, err := client.GetByBarcode(ctx, "111")
		require.ErrorIs(t, err, domain.ErrTierFailure)
	})

	t.Run("malformed payload surfaces as tier failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "en")
		_, err := client.GetByBarcode(ctx, "111")
		require.ErrorIs(t, err, domain.ErrTierFailure)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		client := NewClient(server.URL, "en")
		_, err := client.GetByBarcode(cancelCtx, "111")
		require.ErrorIs(t, err, context.Canceled)
	})
}
