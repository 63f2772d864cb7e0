package orders

import (
	"errors"
	"net/http"

	"brace-api/internal/httputil"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error(), Kind: "order_not_found"})
	case errors.Is(err, ErrUserNotFound):
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error(), Kind: "user_not_found"})
	case errors.Is(err, ErrInvalidCloseRequest):
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error(), Kind: "invalid_close_request"})
	case errors.Is(err, ErrIncompleteHistoryRecord):
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error(), Kind: "incomplete_history_record"})
	case errors.Is(err, ErrHistoryWriteFailed):
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: err.Error(), Kind: "history_write_failed"})
	case errors.Is(err, ErrOrderDeleteFailed):
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error(), Kind: "order_delete_failed"})
	default:
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
	}
}

type createOrderRequest struct {
	Symbol       string          `json:"symbol"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	StopLoss     decimal.Decimal `json:"stop_loss"`
	TakeProfit   decimal.Decimal `json:"take_profit"`
	PositionType string          `json:"position_type"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, userID string) {
	var req createOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), CreateOrderRequest{
		UserID:     userID,
		Symbol:     req.Symbol,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Direction:  req.PositionType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, userID string) {
	orders, err := h.svc.ListOrders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	order, err := h.svc.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

type updateOrderRequest struct {
	Symbol     *string          `json:"symbol"`
	EntryPrice *decimal.Decimal `json:"entry_price"`
	StopLoss   *decimal.Decimal `json:"stop_loss"`
	TakeProfit *decimal.Decimal `json:"take_profit"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	var req updateOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	order, err := h.svc.UpdateOrder(r.Context(), userID, orderID, OrderUpdate{
		Symbol:     req.Symbol,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"message": "order updated", "order": order})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	if err := h.svc.DeleteOrder(r.Context(), userID, orderID); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

type closeOrderRequest struct {
	ClosePrice  *decimal.Decimal `json:"close_price"`
	CloseReason string           `json:"close_reason"`
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	var req closeOrderRequest
	// An empty body means "close at market"; anything else has to be a
	// JSON object with the recognized fields.
	if r.ContentLength != 0 {
		if err := httputil.ReadJSON(r, &req); err != nil {
			writeServiceError(w, errors.Join(ErrInvalidCloseRequest, err))
			return
		}
	}
	rec, err := h.svc.CloseOrder(r.Context(), userID, orderID, CloseRequest{
		ClosePrice:  req.ClosePrice,
		CloseReason: req.CloseReason,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"message": "order closed", "history": rec})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, userID string) {
	history, err := h.svc.ListHistory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}
