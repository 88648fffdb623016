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

// ProductRepo encapsulates queries against the `products` collection,
// including the tag usage aggregation.
type ProductRepo struct {
	coll *mongo.Collection
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection("products")}
}

// TagCountPipeline flattens the tags of published products into one row per
// (product, tag) pair, groups by tag and sorts by count descending. Equal
// counts are ordered by tag so results are stable across runs.
func TagCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "published", Value: true}}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$match", Value: bson.D{{Key: "tags", Value: bson.D{
			{Key: "$type", Value: "string"},
			{Key: "$ne", Value: ""},
		}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

// TagCounts runs TagCountPipeline.
func (r *ProductRepo) TagCounts(ctx context.Context) ([]model.TagCount, error) {
	cur, err := r.coll.Aggregate(ctx, TagCountPipeline())
	if err != nil {
		return nil, errors.Wrap(err, "aggregate tags")
	}
	out := []model.TagCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode tag counts")
	}
	return out, nil
}

// ListPublished returns published products, newest first, optionally
// restricted to those carrying tag.
func (r *ProductRepo) ListPublished(ctx context.Context, tag string) ([]model.Product, error) {
	filter := bson.D{{Key: "published", Value: true}}
	if tag != "" {
		filter = append(filter, bson.E{Key: "tags", Value: tag})
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	out := []model.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

// Create inserts p and fills in its ID and timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Tags = model.NormalizeTags(p.Tags)
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return wrapWrite(err, "insert product")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// Update overwrites the editable fields of the product with the given hex id
// and returns the stored document.
func (r *ProductRepo) Update(ctx context.Context, hexID string, p model.Product) (*model.Product, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "slug", Value: p.Slug},
		{Key: "description", Value: p.Description},
		{Key: "price", Value: p.Price},
		{Key: "images", Value: p.Images},
		{Key: "tags", Value: model.NormalizeTags(p.Tags)},
		{Key: "published", Value: p.Published},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	var out model.Product
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapWrite(err, "update product")
	}
	return &out, nil
}

// Delete removes the product with the given hex id.
func (r *ProductRepo) Delete(ctx context.Context, hexID string) error {
	id, err := parseID(hexID)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
