package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brace-api/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func doClose(t *testing.T, h *Handler, userID, orderID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/v1/orders/"+orderID+"/close", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/v1/orders/"+orderID+"/close", strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.Close(rr, req, userID, orderID)
	return rr
}

func TestCloseEndpoint(t *testing.T) {
	t.Run("success with explicit price", func(t *testing.T) {
		store := newFakeOrderStore(testOrder(types.DirectionLong))
		h := NewHandler(newTestService(store, &fakeHistoryStore{}, &fakePriceFeed{}))

		rr := doClose(t, h, "user-1", "ord-1", `{"close_price": 110, "close_reason": "manual"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Message string `json:"message"`
			History struct {
				ProfitLoss decimal.Decimal `json:"profit_loss"`
				ClosePrice decimal.Decimal `json:"close_price"`
			} `json:"history"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "order closed", resp.Message)
		assert.True(t, resp.History.ProfitLoss.Equal(decimal.NewFromInt(10)))
		assert.True(t, resp.History.ClosePrice.Equal(decimal.NewFromInt(110)))
	})

	t.Run("empty body closes at market", func(t *testing.T) {
		store := newFakeOrderStore(testOrder(types.DirectionLong))
		feed := &fakePriceFeed{price: dec("105")}
		h := NewHandler(newTestService(store, &fakeHistoryStore{}, feed))

		rr := doClose(t, h, "user-1", "ord-1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, feed.calls)
	})

	t.Run("unknown order maps to 404 with kind", func(t *testing.T) {
		h := NewHandler(newTestService(newFakeOrderStore(), &fakeHistoryStore{}, &fakePriceFeed{}))

		rr := doClose(t, h, "user-1", "missing", "")
		require.Equal(t, http.StatusNotFound, rr.Code)
		var resp struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "order_not_found", resp.Kind)
	})

	t.Run("malformed body maps to invalid_close_request", func(t *testing.T) {
		store := newFakeOrderStore(testOrder(types.DirectionLong))
		h := NewHandler(newTestService(store, &fakeHistoryStore{}, &fakePriceFeed{}))

		rr := doClose(t, h, "user-1", "ord-1", `[1,2,3]`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		var resp struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_close_request", resp.Kind)
	})

	t.Run("history write failure maps to retryable status", func(t *testing.T) {
		store := newFakeOrderStore(testOrder(types.DirectionLong))
		history := &fakeHistoryStore{insertErr: assertErr{}}
		h := NewHandler(newTestService(store, history, &fakePriceFeed{price: dec("105")}))

		rr := doClose(t, h, "user-1", "ord-1", "")
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var resp struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "history_write_failed", resp.Kind)

		// Order is still there and safe to retry.
		_, err := store.Get(context.Background(), "ord-1")
		assert.NoError(t, err)
	})
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestCreateEndpointValidation(t *testing.T) {
	h := NewHandler(NewService(newFakeOrderStore(), &fakeHistoryStore{}, &fakePriceFeed{}, &fakeUsers{exists: true}, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{"symbol":"btc","entry_price":45000,"stop_loss":44000,"take_profit":47000,"position_type":"short"}`))
	rr := httptest.NewRecorder()
	h.Create(rr, req, "user-1")
	require.Equal(t, http.StatusCreated, rr.Code)

	var order struct {
		Symbol       string `json:"symbol"`
		PositionType string `json:"position_type"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))
	assert.Equal(t, "BTC", order.Symbol)
	assert.Equal(t, "short", order.PositionType)
	assert.Equal(t, "open", order.Status)
}
