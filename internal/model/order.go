package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.  The payment callback moves an order from pending to paid.
const (
    OrderPending = "pending"
    OrderPaid    = "paid"
)

// OrderItem is a line of an order, priced at checkout time.
type OrderItem struct {
    ProductID string `bson:"productId" json:"productId"`
    Name      string `bson:"name" json:"name"`
    Quantity  int    `bson:"quantity" json:"quantity"`
    Price     int64  `bson:"price" json:"price"`
}

// Payment is the metadata recorded by the payment callback.
type Payment struct {
    UserID string    `bson:"userId" json:"userId"`
    Amount int64     `bson:"amount" json:"amount"`
    PaidAt time.Time `bson:"paidAt" json:"paidAt"`
}

// Order is a checkout record.  OrderID is the public identifier used in
// redirect URLs and payment callbacks; the Mongo _id stays internal.
type Order struct {
    ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
    OrderID   string             `bson:"orderId" json:"orderId"`
    UserID    string             `bson:"userId" json:"userId"`
    Items     []OrderItem        `bson:"items" json:"items"`
    Amount    int64              `bson:"amount" json:"amount"`
    Status    string             `bson:"status" json:"status"`
    Payment   *Payment           `bson:"payment,omitempty" json:"payment,omitempty"`
    CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ItemsTotal sums quantity × price over all items.
func ItemsTotal(items []OrderItem) int64 {
    var total int64
    for _, it := range items {
        total += int64(it.Quantity) * it.Price
    }
    return total
}
