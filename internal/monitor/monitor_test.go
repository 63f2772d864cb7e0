package monitor

import (
	"context"
	"errors"
	"testing"

	"brace-api/internal/model"
	"brace-api/internal/orders"
	"brace-api/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLister struct {
	orders []model.Order
	err    error
}

func (f *fakeLister) ListOpen(_ context.Context) ([]model.Order, error) {
	return f.orders, f.err
}

type closedCall struct {
	orderID string
	price   decimal.Decimal
	reason  string
}

type fakeCloser struct {
	calls []closedCall
}

func (f *fakeCloser) CloseOrder(_ context.Context, _ string, orderID string, req orders.CloseRequest) (model.HistoryRecord, error) {
	f.calls = append(f.calls, closedCall{orderID: orderID, price: *req.ClosePrice, reason: req.CloseReason})
	return model.HistoryRecord{OrderID: orderID}, nil
}

type fakeFeed struct {
	prices map[string]decimal.Decimal
}

func (f *fakeFeed) GetCurrentPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	p, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, errors.New("no price")
	}
	return p, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func order(id, symbol string, direction types.PositionDirection, entry, stop, target string) model.Order {
	return model.Order{
		ID:         id,
		UserID:     "user-1",
		Symbol:     symbol,
		EntryPrice: dec(entry),
		StopLoss:   dec(stop),
		TakeProfit: dec(target),
		Direction:  direction,
		Status:     types.OrderStatusOpen,
	}
}

func TestTriggerReason(t *testing.T) {
	long := order("o1", "BTC", types.DirectionLong, "100", "90", "120")
	short := order("o2", "BTC", types.DirectionShort, "100", "110", "80")

	cases := []struct {
		name      string
		o         model.Order
		price     string
		want      types.CloseReason
		triggered bool
	}{
		{"long holds", long, "100", "", false},
		{"long stop", long, "90", types.CloseReasonStopLoss, true},
		{"long stop below", long, "85", types.CloseReasonStopLoss, true},
		{"long target", long, "120", types.CloseReasonTakeProfit, true},
		{"short holds", short, "100", "", false},
		{"short stop", short, "110", types.CloseReasonStopLoss, true},
		{"short target", short, "79", types.CloseReasonTakeProfit, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason, triggered := TriggerReason(tc.o, dec(tc.price))
			assert.Equal(t, tc.triggered, triggered)
			assert.Equal(t, tc.want, reason)
		})
	}
}

func TestCheckOnceClosesTriggeredOrders(t *testing.T) {
	lister := &fakeLister{orders: []model.Order{
		order("o1", "BTC", types.DirectionLong, "45000", "44000", "47000"),
		order("o2", "BTC", types.DirectionLong, "46000", "43000", "50000"),
		order("o3", "ETH", types.DirectionShort, "3000", "3100", "2700"),
	}}
	closer := &fakeCloser{}
	feed := &fakeFeed{prices: map[string]decimal.Decimal{
		"BTC": dec("43500"),
		"ETH": dec("2650"),
	}}
	w := NewWorker(lister, closer, feed, 0, zap.NewNop())

	w.CheckOnce(context.Background())

	require.Len(t, closer.calls, 2)
	byID := map[string]closedCall{}
	for _, c := range closer.calls {
		byID[c.orderID] = c
	}
	require.Contains(t, byID, "o1")
	assert.Equal(t, string(types.CloseReasonStopLoss), byID["o1"].reason)
	assert.True(t, byID["o1"].price.Equal(dec("43500")))
	require.Contains(t, byID, "o3")
	assert.Equal(t, string(types.CloseReasonTakeProfit), byID["o3"].reason)
}

func TestCheckOnceSkipsSymbolOnFeedFailure(t *testing.T) {
	lister := &fakeLister{orders: []model.Order{
		order("o1", "BTC", types.DirectionLong, "45000", "44000", "47000"),
		order("o2", "ETH", types.DirectionLong, "3000", "2900", "3200"),
	}}
	closer := &fakeCloser{}
	feed := &fakeFeed{prices: map[string]decimal.Decimal{
		"ETH": dec("3250"),
	}}
	w := NewWorker(lister, closer, feed, 0, zap.NewNop())

	w.CheckOnce(context.Background())

	require.Len(t, closer.calls, 1)
	assert.Equal(t, "o2", closer.calls[0].orderID)
}
