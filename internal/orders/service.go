package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brace-api/internal/model"
	"brace-api/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore holds open orders. Delete reports whether a row was actually
// removed so a concurrent close shows up as a no-op instead of an error.
type OrderStore interface {
	Insert(ctx context.Context, o model.Order) (model.Order, error)
	Get(ctx context.Context, id string) (model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListOpen(ctx context.Context) ([]model.Order, error)
	Update(ctx context.Context, id string, upd OrderUpdate) (model.Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// HistoryStore holds closed orders, listed newest close first.
type HistoryStore interface {
	Insert(ctx context.Context, rec model.HistoryRecord) (model.HistoryRecord, error)
	ListByUser(ctx context.Context, userID string) ([]model.HistoryRecord, error)
}

// PriceFeed returns the latest traded price for an uppercase symbol.
type PriceFeed interface {
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// UserDirectory guarantees user existence before order creation. Orders are
// never allowed to provision users implicitly.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	store   OrderStore
	history HistoryStore
	feed    PriceFeed
	users   UserDirectory
	log     *zap.Logger
}

func NewService(store OrderStore, history HistoryStore, feed PriceFeed, users UserDirectory, log *zap.Logger) *Service {
	return &Service{store: store, history: history, feed: feed, users: users, log: log}
}

type CreateOrderRequest struct {
	UserID     string
	Symbol     string
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Direction  string
}

func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (model.Order, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.UserID == "" {
		return model.Order{}, errors.New("user id required")
	}
	if symbol == "" {
		return model.Order{}, errors.New("symbol required")
	}
	if req.EntryPrice.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, errors.New("entry price must be positive")
	}
	if req.StopLoss.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, errors.New("stop loss must be positive")
	}
	if req.TakeProfit.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, errors.New("take profit must be positive")
	}
	exists, err := s.users.UserExists(ctx, req.UserID)
	if err != nil {
		return model.Order{}, fmt.Errorf("user lookup: %w", err)
	}
	if !exists {
		return model.Order{}, ErrUserNotFound
	}
	order := model.Order{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		Symbol:     symbol,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Direction:  types.Direction(req.Direction),
		Status:     types.OrderStatusOpen,
		CreatedAt:  time.Now().UTC(),
	}
	return s.store.Insert(ctx, order)
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (model.Order, error) {
	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if userID != "" && order.UserID != userID {
		return model.Order{}, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) ListHistory(ctx context.Context, userID string) ([]model.HistoryRecord, error) {
	return s.history.ListByUser(ctx, userID)
}

// OrderUpdate carries optional fields for a partial update of an open order.
// No P/L is recomputed here; the order is still open.
type OrderUpdate struct {
	Symbol     *string
	EntryPrice *decimal.Decimal
	StopLoss   *decimal.Decimal
	TakeProfit *decimal.Decimal
}

func (s *Service) UpdateOrder(ctx context.Context, userID, orderID string, upd OrderUpdate) (model.Order, error) {
	if _, err := s.GetOrder(ctx, userID, orderID); err != nil {
		return model.Order{}, err
	}
	if upd.Symbol != nil {
		symbol := strings.ToUpper(strings.TrimSpace(*upd.Symbol))
		if symbol == "" {
			return model.Order{}, errors.New("symbol required")
		}
		upd.Symbol = &symbol
	}
	if upd.EntryPrice != nil && upd.EntryPrice.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, errors.New("entry price must be positive")
	}
	if upd.StopLoss != nil && upd.StopLoss.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, errors.New("stop loss must be positive")
	}
	if upd.TakeProfit != nil && upd.TakeProfit.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, errors.New("take profit must be positive")
	}
	return s.store.Update(ctx, orderID, upd)
}

// DeleteOrder removes an open order without recording any economic outcome.
func (s *Service) DeleteOrder(ctx context.Context, userID, orderID string) error {
	if _, err := s.GetOrder(ctx, userID, orderID); err != nil {
		return err
	}
	deleted, err := s.store.Delete(ctx, orderID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrOrderNotFound
	}
	return nil
}

// CloseRequest is the optional close payload. A nil or non-positive
// ClosePrice means "resolve from the price feed".
type CloseRequest struct {
	ClosePrice  *decimal.Decimal
	CloseReason string
}

// CloseOrder terminates an open order exactly once: it resolves a close
// price, computes the signed percentage profit/loss, writes a history record
// and removes the order. The history insert happens strictly before the
// delete so an order can never disappear without an outcome trace.
func (s *Service) CloseOrder(ctx context.Context, userID, orderID string, req CloseRequest) (model.HistoryRecord, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return model.HistoryRecord{}, err
	}

	closePrice := s.resolveClosePrice(ctx, order, req.ClosePrice)

	reason := types.CloseReason(strings.TrimSpace(req.CloseReason))
	if reason == "" {
		reason = types.CloseReasonManual
	}

	rec := model.HistoryRecord{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		Symbol:      order.Symbol,
		EntryPrice:  order.EntryPrice,
		StopLoss:    order.StopLoss,
		TakeProfit:  order.TakeProfit,
		Direction:   types.Direction(string(order.Direction)),
		ClosePrice:  closePrice,
		ProfitLoss:  ProfitLoss(types.Direction(string(order.Direction)), order.EntryPrice, closePrice),
		CloseReason: reason,
		CreatedAt:   order.CreatedAt,
		ClosedAt:    time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		return model.HistoryRecord{}, fmt.Errorf("%w: %v", ErrIncompleteHistoryRecord, err)
	}

	inserted, err := s.history.Insert(ctx, rec)
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("%w: %v", ErrHistoryWriteFailed, err)
	}

	deleted, err := s.store.Delete(ctx, orderID)
	if err != nil {
		// History already written: the caller has to reconcile, the close
		// itself is not rolled back.
		s.log.Error("order delete failed after history write",
			zap.String("order_id", orderID),
			zap.String("history_id", inserted.ID),
			zap.Error(err),
		)
		return inserted, fmt.Errorf("%w: %v", ErrOrderDeleteFailed, err)
	}
	if !deleted {
		// A concurrent close got there first; the store's atomic delete is
		// the only ordering guarantee between two close attempts.
		s.log.Warn("order already removed during close",
			zap.String("order_id", orderID),
			zap.String("history_id", inserted.ID),
		)
	}
	return inserted, nil
}

// resolveClosePrice picks the client-supplied price when positive, otherwise
// asks the feed, and falls back to the entry price when the feed fails. The
// fallback keeps the close available with a zero-profit outcome instead of
// failing the whole operation on market-data trouble.
func (s *Service) resolveClosePrice(ctx context.Context, order model.Order, supplied *decimal.Decimal) decimal.Decimal {
	if supplied != nil && supplied.GreaterThan(decimal.Zero) {
		return *supplied
	}
	price, err := s.feed.GetCurrentPrice(ctx, order.Symbol)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		s.log.Warn("price feed unavailable, falling back to entry price",
			zap.String("order_id", order.ID),
			zap.String("symbol", order.Symbol),
			zap.Error(errors.Join(ErrPriceFeedUnavailable, err)),
		)
		return order.EntryPrice
	}
	return price
}

var hundred = decimal.NewFromInt(100)

// ProfitLoss computes the signed percentage change between entry and close
// price. Long positions profit when the price rises, short positions when it
// falls. Entry price is validated positive at creation time.
func ProfitLoss(direction types.PositionDirection, entry, close decimal.Decimal) decimal.Decimal {
	if direction == types.DirectionShort {
		return entry.Sub(close).Div(entry).Mul(hundred)
	}
	return close.Sub(entry).Div(entry).Mul(hundred)
}
