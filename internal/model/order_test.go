package model

import (
	"testing"
	"time"

	"brace-api/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validRecord() HistoryRecord {
	now := time.Now().UTC()
	return HistoryRecord{
		ID:          "hist-1",
		OrderID:     "ord-1",
		UserID:      "user-1",
		Symbol:      "BTC",
		EntryPrice:  decimal.NewFromInt(45000),
		StopLoss:    decimal.NewFromInt(44000),
		TakeProfit:  decimal.NewFromInt(47000),
		Direction:   types.DirectionLong,
		ClosePrice:  decimal.NewFromInt(46000),
		ProfitLoss:  decimal.NewFromFloat(2.22),
		CloseReason: types.CloseReasonManual,
		CreatedAt:   now.Add(-time.Hour),
		ClosedAt:    now,
	}
}

func TestHistoryRecordValidate(t *testing.T) {
	assert.NoError(t, validRecord().Validate())

	mutations := map[string]func(*HistoryRecord){
		"id":           func(h *HistoryRecord) { h.ID = "" },
		"order_id":     func(h *HistoryRecord) { h.OrderID = "" },
		"user_id":      func(h *HistoryRecord) { h.UserID = "" },
		"symbol":       func(h *HistoryRecord) { h.Symbol = "" },
		"entry_price":  func(h *HistoryRecord) { h.EntryPrice = decimal.Zero },
		"close_price":  func(h *HistoryRecord) { h.ClosePrice = decimal.Zero },
		"close_reason": func(h *HistoryRecord) { h.CloseReason = "" },
		"created_at":   func(h *HistoryRecord) { h.CreatedAt = time.Time{} },
		"closed_at":    func(h *HistoryRecord) { h.ClosedAt = time.Time{} },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			rec := validRecord()
			mutate(&rec)
			err := rec.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestHistoryRecordAllowsZeroAndNegativeProfitLoss(t *testing.T) {
	rec := validRecord()
	rec.ProfitLoss = decimal.Zero
	assert.NoError(t, rec.Validate())
	rec.ProfitLoss = decimal.NewFromFloat(-12.5)
	assert.NoError(t, rec.Validate())
}
