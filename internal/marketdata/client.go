package marketdata

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client proxies the public exchange REST API. Symbols are queried as the
// uppercase ticker concatenated with the quote-currency suffix, so "BTC"
// becomes "BTCUSDT" on the wire.
type Client struct {
	client      *resty.Client
	quoteSuffix string
	logger      *zap.Logger
	limiter     *rate.Limiter
}

func NewClient(baseURL, quoteSuffix string, logger *zap.Logger) *Client {
	return &Client{
		client:      resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		quoteSuffix: strings.ToUpper(quoteSuffix),
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(10), 5),
	}
}

// Ticker returns the exchange-format symbol for a normalized one.
func (c *Client) Ticker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(symbol, c.quoteSuffix) {
		return symbol
	}
	return symbol + c.quoteSuffix
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetCurrentPrice fetches the latest traded price for a symbol. A non-200
// response, a parse failure or a non-positive value is a feed error.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var out tickerPrice
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", c.Ticker(symbol)).
		SetResult(&out)
	if _, err := c.doRequest(ctx, http.MethodGet, "/ticker/price", req); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get price for %s: %w", symbol, err)
	}
	price, err := decimal.NewFromString(out.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price payload for %s: %w", symbol, err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("non-positive price for %s", symbol)
	}
	return price, nil
}

type tickerStats struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	Volume             string `json:"volume"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
}

// SymbolStats is the reshaped 24h view served to clients, keyed by the
// normalized symbol without the quote suffix.
type SymbolStats struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change_24h"`
	Volume    decimal.Decimal `json:"volume"`
	High24h   decimal.Decimal `json:"high_24h"`
	Low24h    decimal.Decimal `json:"low_24h"`
}

// TopSymbols reshapes the exchange's 24hr statistics for the given watchlist.
func (c *Client) TopSymbols(ctx context.Context, symbols []string) ([]SymbolStats, error) {
	var stats []tickerStats
	req := c.client.R().
		SetContext(ctx).
		SetResult(&stats)
	if _, err := c.doRequest(ctx, http.MethodGet, "/ticker/24hr", req); err != nil {
		return nil, fmt.Errorf("failed to get 24hr stats: %w", err)
	}
	bySymbol := make(map[string]tickerStats, len(stats))
	for _, st := range stats {
		bySymbol[st.Symbol] = st
	}
	out := make([]SymbolStats, 0, len(symbols))
	for _, symbol := range symbols {
		st, ok := bySymbol[c.Ticker(symbol)]
		if !ok {
			continue
		}
		parsed, err := parseStats(strings.ToUpper(strings.TrimSpace(symbol)), st)
		if err != nil {
			c.logger.Warn("skipping malformed ticker stats", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		out = append(out, parsed)
	}
	return out, nil
}

func parseStats(symbol string, st tickerStats) (SymbolStats, error) {
	out := SymbolStats{Symbol: symbol}
	var err error
	if out.Price, err = decimal.NewFromString(st.LastPrice); err != nil {
		return out, err
	}
	if out.Change24h, err = decimal.NewFromString(st.PriceChangePercent); err != nil {
		return out, err
	}
	if out.Volume, err = decimal.NewFromString(st.Volume); err != nil {
		return out, err
	}
	if out.High24h, err = decimal.NewFromString(st.HighPrice); err != nil {
		return out, err
	}
	if out.Low24h, err = decimal.NewFromString(st.LowPrice); err != nil {
		return out, err
	}
	return out, nil
}

// doRequest executes with rate limiting and a bounded retry on throttling and
// server-side failures.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err = req.Execute(method, url)
		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		if resp != nil && err == nil {
			code := resp.StatusCode()
			if code == http.StatusTooManyRequests || code >= 500 {
				shouldRetry = true
			}
		} else {
			shouldRetry = true
		}
		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		retryAfter := time.Duration(math.Pow(2, float64(i))) * time.Second
		c.logger.Warn("price feed request failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)
		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err == nil {
		err = fmt.Errorf("status %s", resp.Status())
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
