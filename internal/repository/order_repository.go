package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/storefront-api/internal/model"
)

// OrderRepo persists checkout orders in the `orders` collection. Orders
// are addressed by their public orderId rather than the Mongo _id.
type OrderRepo struct {
	coll *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{coll: db.Collection("orders")}
}

// Create inserts o. OrderID must already be set by the caller.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	res, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return wrapWrite(err, "insert order")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = id
	}
	return nil
}

// ListByUser returns the orders of one user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}})
}

// List returns all orders, newest first, optionally filtered by status.
func (r *OrderRepo) List(ctx context.Context, status string) ([]model.Order, error) {
	filter := bson.D{}
	if status != "" {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}
	return r.find(ctx, filter)
}

func (r *OrderRepo) find(ctx context.Context, filter bson.D) ([]model.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	out := []model.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return out, nil
}

// MarkPaid sets the order's status to paid and records the payment. The
// transition is unconditional: an already paid order is simply overwritten.
func (r *OrderRepo) MarkPaid(ctx context.Context, orderID string, p model.Payment) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: model.OrderPaid},
		{Key: "payment", Value: p},
		{Key: "updatedAt", Value: p.PaidAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "orderId", Value: orderID}}, update)
	if err != nil {
		return errors.Wrapf(err, "mark order %s paid", orderID)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
