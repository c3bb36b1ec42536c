package models

// OrderStatus is the lifecycle state of a limit order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// LimitOrder is a stored order with a trigger price.
// Nothing transitions an order to filled automatically.
type LimitOrder struct {
	ID           string      `json:"id"`
	UserID       int64       `json:"userId,omitempty"`
	Symbol       string      `json:"symbol"`
	CurveID      string      `json:"curveId"`
	Side         Side        `json:"side"`
	TriggerPrice float64     `json:"triggerPrice"`
	Amount       float64     `json:"amount"`
	CurrentPrice float64     `json:"currentPrice"`
	Status       OrderStatus `json:"status"`
	CreatedAt    int64       `json:"createdAt"` // unix milliseconds
}
