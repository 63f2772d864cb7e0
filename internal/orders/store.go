package orders

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"brace-api/internal/model"
	"brace-api/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the postgres-backed OrderStore.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ OrderStore = (*Store)(nil)

const orderColumns = "id, user_id, symbol, entry_price, stop_loss, take_profit, position_type, status, created_at"

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	var direction, status string
	err := row.Scan(&o.ID, &o.UserID, &o.Symbol, &o.EntryPrice, &o.StopLoss, &o.TakeProfit, &direction, &status, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	o.Direction = types.Direction(direction)
	o.Status = types.OrderStatus(status)
	return o, nil
}

func (s *Store) Insert(ctx context.Context, o model.Order) (model.Order, error) {
	_, err := s.pool.Exec(ctx,
		"insert into orders (id, user_id, symbol, entry_price, stop_loss, take_profit, position_type, status, created_at) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)",
		o.ID, o.UserID, o.Symbol, o.EntryPrice, o.StopLoss, o.TakeProfit, string(o.Direction), string(o.Status), o.CreatedAt)
	return o, err
}

func (s *Store) Get(ctx context.Context, id string) (model.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, "select "+orderColumns+" from orders where id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, "select "+orderColumns+" from orders where user_id = $1 order by created_at desc", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *Store) ListOpen(ctx context.Context) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, "select "+orderColumns+" from orders where status = $1", string(types.OrderStatusOpen))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, id string, upd OrderUpdate) (model.Order, error) {
	sets := []string{}
	args := []any{}
	n := 1
	add := func(col string, v any) {
		sets = append(sets, col+" = $"+strconv.Itoa(n))
		args = append(args, v)
		n++
	}
	if upd.Symbol != nil {
		add("symbol", *upd.Symbol)
	}
	if upd.EntryPrice != nil {
		add("entry_price", *upd.EntryPrice)
	}
	if upd.StopLoss != nil {
		add("stop_loss", *upd.StopLoss)
	}
	if upd.TakeProfit != nil {
		add("take_profit", *upd.TakeProfit)
	}
	if len(sets) == 0 {
		return s.Get(ctx, id)
	}
	args = append(args, id)
	query := "update orders set " + strings.Join(sets, ", ") + " where id = $" + strconv.Itoa(n) + " returning " + orderColumns
	o, err := scanOrder(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, "delete from orders where id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
