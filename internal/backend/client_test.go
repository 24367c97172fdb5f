package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/go_pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, zap.NewNop())
}

func TestListDiscounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/discount/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"d1","name":"Ten","code":"TEN","value":10},{"id":"d2","name":"Half","code":"HALF","value":"50"}]}`))
	})

	got, err := client.ListDiscounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
	assert.True(t, got[0].Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "HALF", got[1].Code)
	assert.True(t, got[1].Value.Equal(decimal.NewFromInt(50)))
}

func TestListDiscounts_SharesInFlightRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"data":[{"id":"d1","name":"Ten","code":"TEN","value":10}]}`))
	})

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]domain.Discount, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := client.ListDiscounts(context.Background())
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, hits.Load(), int32(callers))
	for _, r := range results {
		assert.Len(t, r, 1)
	}

	// callers get independent slices
	results[0][0].Name = "changed"
	assert.Equal(t, "Ten", results[1][0].Name)
}

func TestListDiscounts_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListDiscounts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "500")
}

func TestListDiscounts_BadBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.ListDiscounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestGetDiscount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discount/detail/d 1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"d 1","name":"Ten","code":"TEN","value":10}}`))
	})

	got, err := client.GetDiscount(context.Background(), "d 1")
	require.NoError(t, err)
	assert.Equal(t, "d 1", got.ID)
}

func TestGetDiscount_NullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	})

	_, err := client.GetDiscount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestCheckout(t *testing.T) {
	discountID := "d1"
	var (
		mu   sync.Mutex
		keys []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/order/checkout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Admin Kasir", body["waiterId"])
		assert.Equal(t, "Budi", body["customer"])
		assert.Equal(t, "TAKE_AWAY", body["orderType"])
		assert.Equal(t, 50400.0, body["totalPrice"])
		assert.Equal(t, "d1", body["discountId"])

		items, _ := body["items"].([]any)
		if !assert.Len(t, items, 1) {
			return
		}
		item, _ := items[0].(map[string]any)
		assert.Equal(t, "p1", item["productId"])
		assert.Equal(t, "v1", item["productVariantId"])
		assert.Equal(t, 56000.0, item["price"])
		assert.Equal(t, 2.0, item["quantity"])
		assert.Equal(t, "", item["note"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":"CREATED","data":{"id":"order-42"}}`))
	})

	payload := domain.CheckoutPayload{
		WaiterID:   "Admin Kasir",
		Customer:   "Budi",
		OrderType:  domain.OrderTypeTakeAway,
		TotalPrice: decimal.NewFromInt(50400),
		Items: []domain.LineItem{{
			ProductID:        "p1",
			ProductVariantID: "v1",
			Quantity:         2,
			UnitPrice:        decimal.NewFromInt(28000),
			Price:            decimal.NewFromInt(56000),
		}},
		DiscountID: &discountID,
	}

	res, err := client.Checkout(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, res.Created())
	assert.Equal(t, "order-42", res.OrderID)

	_, err = client.Checkout(context.Background(), payload)
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCheckout_NullDiscount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		v, ok := body["discountId"]
		assert.True(t, ok)
		assert.Nil(t, v)
		_, _ = w.Write([]byte(`{"code":"CREATED","data":{"id":"o1"}}`))
	})

	_, err := client.Checkout(context.Background(), domain.CheckoutPayload{OrderType: domain.OrderTypeDineIn})
	require.NoError(t, err)
}

func TestCheckout_OtherCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"REJECTED","message":"out of stock"}`))
	})

	res, err := client.Checkout(context.Background(), domain.CheckoutPayload{OrderType: domain.OrderTypeDineIn})
	require.NoError(t, err)
	assert.False(t, res.Created())
	assert.Empty(t, res.OrderID)
}

func TestCheckout_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Checkout(context.Background(), domain.CheckoutPayload{OrderType: domain.OrderTypeDineIn})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestCheckout_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// runs before the server's Close
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Checkout(ctx, domain.CheckoutPayload{OrderType: domain.OrderTypeDineIn})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, time.Second, zap.NewNop(), WithBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := client.ListDiscounts(context.Background())
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	}

	_, err := client.Checkout(context.Background(), domain.CheckoutPayload{OrderType: domain.OrderTypeDineIn})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCheckout_SendsPayloadIdempotencyKey(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"code":"CREATED","data":{"id":"o1"}}`))
	})

	payload := domain.CheckoutPayload{IdempotencyKey: "order-key-1", OrderType: domain.OrderTypeDineIn}
	for i := 0; i < 2; i++ {
		_, err := client.Checkout(context.Background(), payload)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"order-key-1", "order-key-1"}, keys)
}
