package marketdata

import (
	"net/http"
	"strings"

	"brace-api/internal/httputil"
)

type Handler struct {
	client  *Client
	watch   []string
	QuoteWS *QuoteWS
}

func NewHandler(client *Client, watch []string, quoteWS *QuoteWS) *Handler {
	return &Handler{client: client, watch: watch, QuoteWS: quoteWS}
}

// Price serves the current price for one symbol, e.g. GET /market/price/BTC.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request, symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "symbol is required"})
		return
	}
	price, err := h.client.GetCurrentPrice(r.Context(), symbol)
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "symbol not found"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "price": price})
}

// Top serves the reshaped 24h statistics for the configured watchlist.
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	stats, err := h.client.TopSymbols(r.Context(), h.watch)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "failed to fetch market data"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
