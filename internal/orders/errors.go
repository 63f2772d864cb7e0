package orders

import "errors"

// Close/lifecycle failures are sentinel errors so callers can branch on kind
// rather than message content. Persistence failures are retry-safe; not-found
// and validation failures are not.
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidCloseRequest     = errors.New("invalid close request")
	ErrIncompleteHistoryRecord = errors.New("incomplete history record")
	ErrHistoryWriteFailed      = errors.New("history write failed")
	// ErrOrderDeleteFailed means the history row was already written but the
	// open order could not be removed. Both rows may coexist until someone
	// reconciles; never swallow this one.
	ErrOrderDeleteFailed = errors.New("order delete failed")
	// ErrPriceFeedUnavailable is soft: a close falls back to the entry price
	// instead of failing. Surfaced only in logs.
	ErrPriceFeedUnavailable = errors.New("price feed unavailable")
)
