package types

type PositionDirection string

type OrderStatus string

type CloseReason string

const (
	DirectionLong  PositionDirection = "long"
	DirectionShort PositionDirection = "short"
)

const (
	OrderStatusOpen OrderStatus = "open"
)

const (
	CloseReasonManual     CloseReason = "manual"
	CloseReasonStopLoss   CloseReason = "stop_loss_triggered"
	CloseReasonTakeProfit CloseReason = "take_profit_triggered"
)

// Direction normalizes a raw direction value. Anything other than "short"
// is treated as a long position, matching order creation defaults.
func Direction(raw string) PositionDirection {
	if raw == string(DirectionShort) {
		return DirectionShort
	}
	return DirectionLong
}
