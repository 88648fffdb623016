// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPaidQueue is the durable queue carrying OrderPaidEvent messages.
const OrderPaidQueue = "order.paid"

// OrderPaidEvent is published after the payment callback marks an order as
// paid.  It carries enough for downstream consumers to log or notify
// without querying the primary database.
type OrderPaidEvent struct {
    OrderID string `json:"order_id"`
    UserID  string `json:"user_id"`
    Amount  int64  `json:"amount"`
    PaidAt  string `json:"paid_at"`
}
