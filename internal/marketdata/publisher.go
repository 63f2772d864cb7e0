package marketdata

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Quote struct {
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	Timestamp int64  `json:"ts"`
}

// StartPublisher polls the feed for the watchlist and publishes quote events
// to the bus for connected WebSocket clients. It stops when ctx is canceled.
func StartPublisher(ctx context.Context, bus *Bus, client *Client, symbols []string, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			for _, symbol := range symbols {
				price, err := client.GetCurrentPrice(ctx, symbol)
				if err != nil {
					logger.Debug("quote poll failed", zap.String("symbol", symbol), zap.Error(err))
					continue
				}
				bus.Publish(Event{Type: "quote", Data: Quote{
					Symbol:    symbol,
					Price:     price.String(),
					Timestamp: time.Now().UnixMilli(),
				}})
			}
		}
	}()
}
