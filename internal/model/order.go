package model

import (
	"fmt"
	"time"

	"brace-api/internal/types"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         string                  `json:"id"`
	UserID     string                  `json:"user_id"`
	Symbol     string                  `json:"symbol"`
	EntryPrice decimal.Decimal         `json:"entry_price"`
	StopLoss   decimal.Decimal         `json:"stop_loss"`
	TakeProfit decimal.Decimal         `json:"take_profit"`
	Direction  types.PositionDirection `json:"position_type"`
	Status     types.OrderStatus       `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
}

// HistoryRecord is the immutable outcome of a closed order. ProfitLoss is a
// signed percentage relative to the entry price.
type HistoryRecord struct {
	ID          string                  `json:"id"`
	OrderID     string                  `json:"order_id"`
	UserID      string                  `json:"user_id"`
	Symbol      string                  `json:"symbol"`
	EntryPrice  decimal.Decimal         `json:"entry_price"`
	StopLoss    decimal.Decimal         `json:"stop_loss"`
	TakeProfit  decimal.Decimal         `json:"take_profit"`
	Direction   types.PositionDirection `json:"position_type"`
	ClosePrice  decimal.Decimal         `json:"close_price"`
	ProfitLoss  decimal.Decimal         `json:"profit_loss"`
	CloseReason types.CloseReason       `json:"close_reason"`
	CreatedAt   time.Time               `json:"created_at"`
	ClosedAt    time.Time               `json:"closed_at"`
}

// Validate enforces that every required field is set before the record is
// persisted. A history row must never be written with a hole in it.
func (h HistoryRecord) Validate() error {
	missing := ""
	switch {
	case h.ID == "":
		missing = "id"
	case h.OrderID == "":
		missing = "order_id"
	case h.UserID == "":
		missing = "user_id"
	case h.Symbol == "":
		missing = "symbol"
	case h.EntryPrice.LessThanOrEqual(decimal.Zero):
		missing = "entry_price"
	case h.ClosePrice.LessThanOrEqual(decimal.Zero):
		missing = "close_price"
	case h.CloseReason == "":
		missing = "close_reason"
	case h.CreatedAt.IsZero():
		missing = "created_at"
	case h.ClosedAt.IsZero():
		missing = "closed_at"
	}
	if missing != "" {
		return fmt.Errorf("missing required field: %s", missing)
	}
	return nil
}
