package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr         string
	DBDSN            string
	JWTIssuer        string
	JWTSecret        string
	JWTTTL           time.Duration
	PriceFeedURL     string
	PriceQuoteSuffix string
	WatchSymbols     []string
	MonitorInterval  time.Duration
	WebSocketOrigin  string
	LogLevel         string
	LogFormat        string
	Environment      string
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.DBDSN = os.Getenv("DB_DSN")
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		missing = append(missing, "JWT_TTL")
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.PriceFeedURL = os.Getenv("PRICE_FEED_URL")
	if c.PriceFeedURL == "" {
		c.PriceFeedURL = "https://api.binance.com/api/v3"
	}
	c.PriceQuoteSuffix = os.Getenv("PRICE_QUOTE_SUFFIX")
	if c.PriceQuoteSuffix == "" {
		c.PriceQuoteSuffix = "USDT"
	}
	watch := os.Getenv("WATCH_SYMBOLS")
	if watch == "" {
		watch = "BTC,ETH,BNB,SOL"
	}
	for _, s := range strings.Split(watch, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			c.WatchSymbols = append(c.WatchSymbols, s)
		}
	}
	if len(c.WatchSymbols) == 0 {
		return c, errors.New("invalid WATCH_SYMBOLS")
	}
	monitorInterval := os.Getenv("MONITOR_INTERVAL")
	if monitorInterval != "" {
		d, err := time.ParseDuration(monitorInterval)
		if err != nil {
			return c, err
		}
		if d < 0 {
			return c, errors.New("invalid MONITOR_INTERVAL")
		}
		c.MonitorInterval = d
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		c.WebSocketOrigin = "*"
	}
	c.LogLevel = os.Getenv("LOG_LEVEL")
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFormat = os.Getenv("LOG_FORMAT")
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	c.Environment = strings.ToLower(strings.TrimSpace(os.Getenv("ENVIRONMENT")))
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment != "development" && c.Environment != "production" {
		return c, errors.New("invalid ENVIRONMENT: use development or production")
	}
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
