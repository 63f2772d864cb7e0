package orders

import (
	"context"

	"brace-api/internal/model"
	"brace-api/internal/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryTable is the postgres-backed HistoryStore.
type HistoryTable struct {
	pool *pgxpool.Pool
}

func NewHistoryTable(pool *pgxpool.Pool) *HistoryTable {
	return &HistoryTable{pool: pool}
}

var _ HistoryStore = (*HistoryTable)(nil)

const historyColumns = "id, order_id, user_id, symbol, entry_price, stop_loss, take_profit, position_type, close_price, profit_loss, close_reason, created_at, closed_at"

func (s *HistoryTable) Insert(ctx context.Context, rec model.HistoryRecord) (model.HistoryRecord, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		"insert into order_history ("+historyColumns+") values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) returning id",
		rec.ID, rec.OrderID, rec.UserID, rec.Symbol, rec.EntryPrice, rec.StopLoss, rec.TakeProfit,
		string(rec.Direction), rec.ClosePrice, rec.ProfitLoss, string(rec.CloseReason), rec.CreatedAt, rec.ClosedAt,
	).Scan(&id)
	if err != nil {
		return model.HistoryRecord{}, err
	}
	rec.ID = id
	return rec, nil
}

func (s *HistoryTable) ListByUser(ctx context.Context, userID string) ([]model.HistoryRecord, error) {
	rows, err := s.pool.Query(ctx, "select "+historyColumns+" from order_history where user_id = $1 order by closed_at desc", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.HistoryRecord{}
	for rows.Next() {
		var rec model.HistoryRecord
		var direction, reason string
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.UserID, &rec.Symbol, &rec.EntryPrice, &rec.StopLoss, &rec.TakeProfit,
			&direction, &rec.ClosePrice, &rec.ProfitLoss, &reason, &rec.CreatedAt, &rec.ClosedAt); err != nil {
			return nil, err
		}
		rec.Direction = types.Direction(direction)
		rec.CloseReason = types.CloseReason(reason)
		out = append(out, rec)
	}
	return out, rows.Err()
}
