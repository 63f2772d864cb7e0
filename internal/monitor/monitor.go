package monitor

import (
	"context"
	"time"

	"brace-api/internal/model"
	"brace-api/internal/orders"
	"brace-api/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OpenOrderLister yields every open order across all users.
type OpenOrderLister interface {
	ListOpen(ctx context.Context) ([]model.Order, error)
}

// OrderCloser runs the regular close pipeline for a triggered order.
type OrderCloser interface {
	CloseOrder(ctx context.Context, userID, orderID string, req orders.CloseRequest) (model.HistoryRecord, error)
}

// Worker periodically sweeps open orders and closes any whose stop-loss or
// take-profit level has been crossed by the current market price.
type Worker struct {
	store    OpenOrderLister
	closer   OrderCloser
	feed     orders.PriceFeed
	interval time.Duration
	log      *zap.Logger
}

func NewWorker(store OpenOrderLister, closer OrderCloser, feed orders.PriceFeed, interval time.Duration, log *zap.Logger) *Worker {
	return &Worker{store: store, closer: closer, feed: feed, interval: interval, log: log}
}

// Run sweeps on the configured interval until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	interval := w.interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.CheckOnce(ctx)
		}
	}
}

// CheckOnce performs a single sweep. One price lookup per symbol; a failed
// lookup skips that symbol's orders until the next sweep.
func (w *Worker) CheckOnce(ctx context.Context) {
	open, err := w.store.ListOpen(ctx)
	if err != nil {
		w.log.Error("failed to list open orders", zap.Error(err))
		return
	}
	bySymbol := make(map[string][]model.Order)
	for _, o := range open {
		bySymbol[o.Symbol] = append(bySymbol[o.Symbol], o)
	}
	for symbol, group := range bySymbol {
		price, err := w.feed.GetCurrentPrice(ctx, symbol)
		if err != nil {
			w.log.Warn("price lookup failed, skipping symbol", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		for _, o := range group {
			reason, triggered := TriggerReason(o, price)
			if !triggered {
				continue
			}
			rec, err := w.closer.CloseOrder(ctx, "", o.ID, orders.CloseRequest{
				ClosePrice:  &price,
				CloseReason: string(reason),
			})
			if err != nil {
				w.log.Error("auto close failed",
					zap.String("order_id", o.ID),
					zap.String("reason", string(reason)),
					zap.Error(err),
				)
				continue
			}
			w.log.Info("order auto closed",
				zap.String("order_id", o.ID),
				zap.String("symbol", symbol),
				zap.String("reason", string(reason)),
				zap.String("profit_loss", rec.ProfitLoss.String()),
			)
		}
	}
}

// TriggerReason reports whether the price crosses the order's stop-loss or
// take-profit level, direction-aware: a long stops out when the price falls
// to the stop and takes profit when it rises to the target, a short the other
// way around.
func TriggerReason(o model.Order, price decimal.Decimal) (types.CloseReason, bool) {
	if o.Direction == types.DirectionShort {
		switch {
		case price.GreaterThanOrEqual(o.StopLoss):
			return types.CloseReasonStopLoss, true
		case price.LessThanOrEqual(o.TakeProfit):
			return types.CloseReasonTakeProfit, true
		}
		return "", false
	}
	switch {
	case price.LessThanOrEqual(o.StopLoss):
		return types.CloseReasonStopLoss, true
	case price.GreaterThanOrEqual(o.TakeProfit):
		return types.CloseReasonTakeProfit, true
	}
	return "", false
}
