package machine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendstack/kiosk-backend/pkg/config"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/pagination"
)

func init() {
	// The api binary sets this at startup; the wire assertions below depend
	// on money marshalling as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.MachineConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.MachineConfig{BaseURL: "   "})
	require.Error(t, err)
}

func TestCatalogProductsBareArray(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/vending-machine/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"p1","name":"Cola","price":25,"stock":10,"kind":"drink"}]`))
	}))

	products, err := client.CatalogProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(25)))
}

func TestCatalogProductsEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"_id":"p1","name":"Cola","price":25}],"totalItems":42}`))
	}))

	products, err := client.CatalogProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Cola", products[0].Name)
}

func TestPurchaseSuccess(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/vending-machine/purchase", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"transactionId": "tx-1",
			"timestamp": "2026-02-11T09:30:00Z",
			"validatedProducts": [{"productId":"p1","productName":"Cola","quantity":2,"price":25}],
			"totalCost": 50,
			"totalPaid": 60,
			"change": [{"denomination":10,"quantity":1}]
		}`))
	}))

	tx, err := client.Purchase(context.Background(), PurchaseRequest{
		Products:      []PurchaseLine{{ProductID: "p1", Quantity: 2}},
		TotalPaid:     decimal.NewFromInt(60),
		Denominations: []DenominationCount{{Value: decimal.NewFromInt(20), Count: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.True(t, tx.TotalCost.Equal(decimal.NewFromInt(50)))
	require.Len(t, tx.Change, 1)
	assert.Equal(t, 1, tx.Change[0].Quantity)

	// Money fields must go over the wire as JSON numbers, not strings.
	assert.Equal(t, float64(60), captured["totalPaid"])
	lines, ok := captured["products"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].(map[string]any)["productId"])
}

func TestPurchaseRejectionCarriesBackendMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Insufficient payment. Total cost is 50."}`))
	}))

	_, err := client.Purchase(context.Background(), PurchaseRequest{
		Products:  []PurchaseLine{{ProductID: "p1", Quantity: 1}},
		TotalPaid: decimal.NewFromInt(20),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePaymentRejected, typed.Code())
	assert.Equal(t, "Insufficient payment. Total cost is 50.", typed.Message())
}

func TestPurchaseServerFaultIsDependencyError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Purchase(context.Background(), PurchaseRequest{
		Products: []PurchaseLine{{ProductID: "p1", Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestListProductsPassesPagination(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"totalItems":0}`))
	}))

	list, err := client.ListProducts(context.Background(), pagination.Params{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreateProductAcceptsBothSuccessStatuses(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusCreated, http.StatusOK} {
		calls := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, http.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"_id":"p9","name":"Water","price":10,"stock":5}`))
		}))

		product, err := client.CreateProduct(context.Background(), ProductInput{
			Name:  "Water",
			Price: decimal.NewFromInt(10),
			Stock: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "p9", product.ID)
		assert.Equal(t, 1, calls, "create must issue exactly one request")
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProduct(context.Background(), "missing")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestInventoryRoundTrip(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/inventory":
			_, _ = w.Write([]byte(`[{"_id":"i1","type":"coin","denomination":10,"quantity":50}]`))
		case r.Method == http.MethodPut && r.URL.Path == "/inventory/i1":
			var input InventoryInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
			assert.Equal(t, 40, input.Quantity)
			_, _ = w.Write([]byte(`{"_id":"i1","type":"coin","denomination":10,"quantity":40}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))

	items, err := client.ListInventory(context.Background(), pagination.Params{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Denomination.Equal(decimal.NewFromInt(10)))

	updated, err := client.UpdateInventory(context.Background(), "i1", InventoryInput{
		Type:         "coin",
		Denomination: decimal.NewFromInt(10),
		Quantity:     40,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Quantity)
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		assert.Equal(t, "cola.png", header.Filename)
		payload, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake-png-bytes", string(payload))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"uploaded","filename":"cola.png","path":"/images/cola.png"}`))
	}))

	result, err := client.UploadImage(context.Background(), "cola.png", strings.NewReader("fake-png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/images/cola.png", result.Path)
}
